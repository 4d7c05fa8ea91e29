package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the shortcut watcher waits after the last
// change before requesting a rebuild.
const DefaultDebounce = 2 * time.Second

// Watcher turns changes in shortcut directories into forced rebuild
// requests. Bursts of events collapse into one request.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	stopCh chan struct{}
	wg     sync.WaitGroup
	stop   sync.Once
}

// WatchShortcuts starts a Watcher over dirs that requests a forced rebuild
// from s after each burst of changes.
func (s *Scheduler) WatchShortcuts(dirs []string, debounce time.Duration) (*Watcher, error) {
	return NewWatcher(dirs, debounce, func() {
		if !s.request(true, CauseWatch) {
			s.logger.Debug("shortcut change ignored, refresh not accepted")
		}
	}, s.logger)
}

// NewWatcher watches dirs and their immediate subdirectories. Missing
// directories are skipped.
func NewWatcher(dirs []string, debounce time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	watched := 0
	for _, dir := range dirs {
		watched += w.addTree(dir)
	}
	logger.Info("watching shortcut directories", zap.Int("dirs", watched))

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// addTree watches dir and its direct child directories.
func (w *Watcher) addTree(dir string) int {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0
	}
	if err := w.fs.Add(dir); err != nil {
		w.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
		return 0
	}
	n := 1
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := w.fs.Add(filepath.Join(dir, e.Name())); err == nil {
			n++
		}
	}
	return n
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fs.Add(ev.Name)
					w.schedule()
					continue
				}
			}
			if relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shortcut watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.stopCh:
		return
	default:
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// Close stops watching and cancels a pending request.
func (w *Watcher) Close() error {
	var err error
	w.stop.Do(func() {
		w.mu.Lock()
		close(w.stopCh)
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

// relevant reports whether ev can change the set of shortcuts.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".lnk", ".desktop", ".exe":
		return true
	case "":
		// Extensionless entries may be executables or symlinks. A removed
		// one can no longer be inspected, so treat it as relevant.
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			return true
		}
		info, err := os.Stat(ev.Name)
		return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
	}
	return false
}
