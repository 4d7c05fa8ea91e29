// Package scheduler keeps the inventory fresh. A single background worker
// runs rebuilds; requests that arrive while one is in flight are dropped.
package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/index"
	"github.com/blackwell-systems/appdex/internal/merge"
	"github.com/blackwell-systems/appdex/internal/metrics"
	"github.com/blackwell-systems/appdex/internal/scanner"
	"github.com/blackwell-systems/appdex/internal/store"
)

// Rebuild causes, as journaled in scan_runs.
const (
	CauseStartup  = "startup"
	CauseStale    = "stale"
	CausePeriodic = "periodic"
	CauseForced   = "forced"
	CauseWatch    = "watch"
)

const (
	stateIdle int32 = iota
	stateRefreshing
)

// ErrRefreshInProgress is returned by RefreshNow when another rebuild is
// running.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Scanner produces classified candidates.
type Scanner interface {
	Scan() scanner.Result
}

// Journal records finished rebuilds.
type Journal interface {
	InsertScanRun(run *store.ScanRun) (int64, error)
}

// Outcome summarizes a finished rebuild.
type Outcome struct {
	Cause      string
	Apps       int
	Candidates int
	Failures   int
	Counts     map[string]int // raw candidates per source
	Duration   time.Duration
}

// Config controls staleness and the periodic tick.
type Config struct {
	TTL      time.Duration
	Interval time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithJournal records every rebuild in j.
func WithJournal(j Journal) Option {
	return func(s *Scheduler) { s.journal = j }
}

// WithMetrics reports rebuilds to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithIDFunc overrides the ID generator used for new records.
func WithIDFunc(fn merge.IDFunc) Option {
	return func(s *Scheduler) { s.newID = fn }
}

// Scheduler decides when the inventory needs rebuilding and rebuilds it.
type Scheduler struct {
	scanner Scanner
	index   *index.Store
	journal Journal
	metrics *metrics.Metrics
	logger  *zap.Logger
	cfg     Config
	now     func() time.Time
	newID   merge.IDFunc

	state   atomic.Int32
	running atomic.Bool
	jobs    chan string
	stopCh  chan struct{}
	wg      sync.WaitGroup
	ticker  *time.Ticker
	stop    sync.Once
}

// New creates a Scheduler that rebuilds idx from sc.
func New(sc Scanner, idx *index.Store, cfg Config, logger *zap.Logger, opts ...Option) (*Scheduler, error) {
	if sc == nil || idx == nil {
		return nil, fmt.Errorf("scanner and index cannot be nil")
	}
	if cfg.TTL <= 0 || cfg.Interval <= 0 {
		return nil, fmt.Errorf("TTL and interval must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		scanner: sc,
		index:   idx,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		jobs:    make(chan string, 1),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the worker and requests an initial build, which only
// runs when the inventory is empty, never built or stale.
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.ticker = time.NewTicker(s.cfg.Interval)

	s.wg.Add(1)
	go s.run()

	s.request(false, CauseStartup)
}

// Stop halts the worker after any rebuild in flight completes.
func (s *Scheduler) Stop() {
	s.stop.Do(func() {
		close(s.stopCh)
		if s.ticker != nil {
			s.ticker.Stop()
		}
		s.wg.Wait()
		s.running.Store(false)
		s.state.Store(stateIdle)
	})
}

// Refreshing reports whether a rebuild is in flight.
func (s *Scheduler) Refreshing() bool {
	return s.state.Load() == stateRefreshing
}

// Request asks the worker for a rebuild and reports whether one was
// scheduled. A non-forced request only schedules when the inventory is
// due. Requests made while refreshing, or before Start, are dropped.
func (s *Scheduler) Request(force bool) bool {
	cause := CauseStale
	if force {
		cause = CauseForced
	}
	return s.request(force, cause)
}

func (s *Scheduler) request(force bool, cause string) bool {
	if !s.running.Load() {
		return false
	}
	if !s.acquire() {
		return false
	}
	if !force && !s.due() {
		s.release()
		return false
	}
	s.jobs <- cause
	return true
}

// RefreshNow rebuilds in the calling goroutine. It returns a nil Outcome
// when a non-forced refresh finds the inventory fresh, and
// ErrRefreshInProgress when another rebuild holds the guard.
func (s *Scheduler) RefreshNow(force bool) (*Outcome, error) {
	if !s.acquire() {
		return nil, ErrRefreshInProgress
	}
	defer s.release()

	cause := CauseForced
	if !force {
		if !s.due() {
			return nil, nil
		}
		cause = CauseStale
	}
	out, err := s.rebuild(cause)
	return &out, err
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case cause := <-s.jobs:
			s.rebuildAndRelease(cause)
		case <-s.ticker.C:
			if s.acquire() {
				s.rebuildAndRelease(CausePeriodic)
			}
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) rebuildAndRelease(cause string) {
	defer s.release()
	if _, err := s.rebuild(cause); err != nil {
		s.logger.Error("background rebuild failed", zap.String("cause", cause), zap.Error(err))
	}
}

// acquire moves Idle to Refreshing, counting a dropped request on failure.
func (s *Scheduler) acquire() bool {
	if s.state.CompareAndSwap(stateIdle, stateRefreshing) {
		return true
	}
	if s.metrics != nil {
		s.metrics.DroppedRequests.Inc()
	}
	s.logger.Debug("refresh request dropped, rebuild in flight")
	return false
}

func (s *Scheduler) release() {
	s.state.Store(stateIdle)
}

// due reports whether the current inventory needs a rebuild.
func (s *Scheduler) due() bool {
	inv := s.index.Snapshot()
	return len(inv.Apps) == 0 || inv.IsStale(s.now(), s.cfg.TTL)
}

// rebuild runs scan, merge, persist and journal. The caller holds the
// Refreshing state.
func (s *Scheduler) rebuild(cause string) (Outcome, error) {
	started := s.now()
	out := Outcome{Cause: cause}
	s.logger.Info("rebuilding inventory", zap.String("cause", cause))

	var res scanner.Result
	err := stage("scan", func() { res = s.scanner.Scan() })
	if err == nil {
		out.Candidates = len(res.Candidates)
		out.Failures = len(res.Failures)
		out.Counts = res.Counts
		err = stage("merge", func() {
			s.index.Update(func(cur apps.Inventory) apps.Inventory {
				next := merge.Merge(cur, res.Candidates, s.newID)
				next.LastUpdate = s.now().Unix()
				return next
			})
		})
	}
	if err == nil {
		if ferr := s.index.Flush(); ferr != nil {
			err = fmt.Errorf("failed to persist inventory: %w", ferr)
			if s.metrics != nil {
				s.metrics.SaveFailures.Inc()
			}
		}
	}

	out.Apps = s.index.Status().AppCount
	out.Duration = s.now().Sub(started)

	if s.metrics != nil {
		s.metrics.ObserveRebuild(cause, out.Duration, err, out.Apps)
		for _, src := range res.FailedSources {
			s.metrics.SourceFailures.WithLabelValues(src).Inc()
		}
	}
	s.record(started, out, err)

	if err != nil {
		return out, err
	}
	s.logger.Info("inventory rebuilt",
		zap.String("cause", cause),
		zap.Int("apps", out.Apps),
		zap.Int("candidates", out.Candidates),
		zap.Int("failures", out.Failures),
		zap.Duration("duration", out.Duration))
	return out, nil
}

func (s *Scheduler) record(started time.Time, out Outcome, rebuildErr error) {
	if s.journal == nil {
		return
	}
	run := &store.ScanRun{
		StartedAt:      started,
		Duration:       out.Duration,
		Cause:          out.Cause,
		AppCount:       out.Apps,
		CandidateCount: out.Candidates,
		Failures:       out.Failures,
	}
	if rebuildErr != nil {
		run.Error = rebuildErr.Error()
	}
	if _, err := s.journal.InsertScanRun(run); err != nil {
		s.logger.Warn("failed to journal scan run", zap.Error(err))
	}
}

// stage runs fn, converting a panic into an error.
func stage(name string, fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s stage panicked: %v", name, p)
		}
	}()
	fn()
	return nil
}
