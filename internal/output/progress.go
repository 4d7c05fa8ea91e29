package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar tracks a fixed number of steps, such as source readers
// during a scan.
// Example: [=========>          ]  45% desktop shortcuts
type ProgressBar struct {
	mu          sync.Mutex
	total       int
	current     int
	description string
	width       int
	writer      io.Writer
}

// NewProgress creates a progress bar writing to stdout.
func NewProgress(total int, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		description: description,
		width:       30,
		writer:      os.Stdout,
	}
}

// SetWriter sets the output writer.
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Step advances the bar by one and replaces its description.
func (p *ProgressBar) Step(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if description != "" {
		p.description = description
	}
	p.advance(1)
}

// Finish completes the bar and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	done := p.current == p.total
	p.current = p.total

	if writerIsTTY(p.writer) {
		p.render()
		fmt.Fprintln(p.writer)
		return
	}
	// Off a terminal the completed line was already written by render.
	if !done {
		p.render()
	}
}

// advance must be called with the lock held.
func (p *ProgressBar) advance(n int) {
	p.current = min(p.current+n, p.total)
	p.render()
}

// render must be called with the lock held. Off a terminal only the
// completed bar is written, so logs get a single line.
func (p *ProgressBar) render() {
	line := fmt.Sprintf("%s %3d%% %s", drawBar(p.current, p.total, p.width), percent(p.current, p.total), p.description)
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s", line)
		return
	}
	if p.current == p.total {
		fmt.Fprintln(p.writer, line)
	}
}

func percent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return current * 100 / total
}

// drawBar returns "[===>   ]" with width inner cells.
func drawBar(current, total, width int) string {
	filled := 0
	if total > 0 {
		filled = current * width / total
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < width; i++ {
		switch {
		case i < filled-1:
			sb.WriteByte('=')
		case i == filled-1:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Spinner animates while indeterminate work runs, such as waiting for the
// daemon to come up.
// Example: |  Starting daemon (3s elapsed)
type Spinner struct {
	mu          sync.Mutex
	message     string
	frames      []string
	writer      io.Writer
	running     bool
	showElapsed bool
	started     time.Time
	ticker      *time.Ticker
	done        chan struct{}
}

// NewSpinner creates a spinner writing to stdout. Call Start to show it.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		frames:  []string{"|", "/", "-", "\\"},
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
}

// WithElapsed appends the elapsed time to the message. Call before Start.
func (s *Spinner) WithElapsed() *Spinner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showElapsed = true
	return s
}

// SetWriter sets the output writer.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. Off a terminal the message is printed once
// and no goroutine is started.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.ticker = time.NewTicker(100 * time.Millisecond)
	go s.animate(s.ticker, s.done)
}

func (s *Spinner) animate(ticker *time.Ticker, done <-chan struct{}) {
	frame := 0
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				return
			}
			fmt.Fprintf(s.writer, "\r%s  %s", s.frames[frame], s.text())
			frame = (frame + 1) % len(s.frames)
			s.mu.Unlock()
		case <-done:
			return
		}
	}
}

// text must be called with the lock held.
func (s *Spinner) text() string {
	if !s.showElapsed {
		return s.message
	}
	return fmt.Sprintf("%s (%ds elapsed)", s.message, int(time.Since(s.started).Seconds()))
}

// UpdateMessage replaces the message while running.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.text())+4))
	}
}

// StopWithMessage stops the spinner and prints a final line.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
