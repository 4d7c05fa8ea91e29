// Package scanner runs the source readers and turns their raw candidates
// into classified merge candidates.
package scanner

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/classify"
	"github.com/blackwell-systems/appdex/internal/icons"
	"github.com/blackwell-systems/appdex/internal/merge"
	"github.com/blackwell-systems/appdex/internal/sources"
)

// Scanner discovers applications through a fixed set of readers.
type Scanner struct {
	readers []sources.Reader
	icons   icons.Extractor
	logger  *zap.Logger

	mu       sync.Mutex
	progress func(reader string, found int)
}

// New creates a Scanner over readers. A nil extractor gives every app the
// default icon.
func New(readers []sources.Reader, ext icons.Extractor, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{readers: readers, icons: ext, logger: logger}
}

// OnReaderDone registers fn to be called as each reader finishes. fn may
// be called from several goroutines at once.
func (s *Scanner) OnReaderDone(fn func(reader string, found int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = fn
}

// Readers returns the number of readers a scan runs.
func (s *Scanner) Readers() int {
	return len(s.readers)
}

// Result is the outcome of one scan.
type Result struct {
	Candidates []merge.Candidate
	// Counts holds the number of raw candidates per reader name.
	Counts map[string]int
	// Failures lists unavailable roots and failed readers. They never
	// prevent the other readers' candidates from being used.
	Failures []error
	// FailedSources names the reader behind each entry of Failures.
	FailedSources []string
	Duration      time.Duration
}

// Scan runs every reader concurrently and classifies the combined
// candidates. Candidates are ordered by reader, then as each reader
// returned them, so the outcome does not depend on scheduling.
func (s *Scanner) Scan() Result {
	start := time.Now()

	type readerOutput struct {
		reader sources.Reader
		out    []merge.Candidate
		err    error
	}
	outputs := make([]readerOutput, len(s.readers))

	var wg sync.WaitGroup
	for i, r := range s.readers {
		wg.Add(1)
		go func(i int, r sources.Reader) {
			defer wg.Done()
			outputs[i] = readerOutput{reader: r}
			outputs[i].out, outputs[i].err = s.runReader(r)
			s.reportDone(r.Name(), len(outputs[i].out))
		}(i, r)
	}
	wg.Wait()

	res := Result{Counts: make(map[string]int, len(s.readers))}
	for _, o := range outputs {
		if o.err != nil {
			s.logger.Warn("source partially unavailable", zap.String("source", o.reader.Name()), zap.Error(o.err))
			res.Failures = append(res.Failures, o.err)
			res.FailedSources = append(res.FailedSources, o.reader.Name())
		}
		res.Counts[o.reader.Name()] += len(o.out)
		res.Candidates = append(res.Candidates, o.out...)
	}
	res.Duration = time.Since(start)

	s.logger.Info("scan complete",
		zap.Int("candidates", len(res.Candidates)),
		zap.Any("per_source", res.Counts),
		zap.Duration("duration", res.Duration))
	return res
}

func (s *Scanner) reportDone(name string, found int) {
	s.mu.Lock()
	fn := s.progress
	s.mu.Unlock()
	if fn != nil {
		fn(name, found)
	}
}

// runReader scans one reader, converting a panic into an error.
func (s *Scanner) runReader(r sources.Reader) (out []merge.Candidate, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("reader %s panicked: %v", r.Name(), p)
		}
	}()

	raw, err := r.Scan()
	out = make([]merge.Candidate, 0, len(raw))
	for _, c := range raw {
		if c.Source == "" {
			c.Source = r.Name()
		}
		out = append(out, merge.Candidate{
			RawCandidate: c,
			Category:     classify.Categorize(c.Path, c.Name),
			Icon:         icons.For(s.icons, c.Path),
		})
	}
	return out, err
}
