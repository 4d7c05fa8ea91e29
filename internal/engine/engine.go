// Package engine is the command surface of appdex: search, recent apps,
// index status, launching and manual additions. The CLI and the HTTP
// server both drive it.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/classify"
	"github.com/blackwell-systems/appdex/internal/icons"
	"github.com/blackwell-systems/appdex/internal/index"
	"github.com/blackwell-systems/appdex/internal/launch"
	"github.com/blackwell-systems/appdex/internal/merge"
	"github.com/blackwell-systems/appdex/internal/metrics"
	"github.com/blackwell-systems/appdex/internal/store"
)

// ErrAppNotFound is returned when an ID is not in the inventory.
var ErrAppNotFound = errors.New("app not found")

// Refresher schedules inventory rebuilds.
type Refresher interface {
	Request(force bool) bool
	Refreshing() bool
}

// History journals launches.
type History interface {
	InsertLaunchEvent(event *store.LaunchEvent) error
}

// Status is the index state reported to clients.
type Status struct {
	Building   bool  `json:"building"`
	AppCount   int   `json:"app_count"`
	LastUpdate int64 `json:"last_update"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory journals every launch attempt in h.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithMetrics reports searches and launches to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithIcons sets the icon extractor used for manual entries.
func WithIcons(ext icons.Extractor) Option {
	return func(e *Engine) { e.icons = ext }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides time.Now for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine ties the index, the refresher and the launcher together.
type Engine struct {
	index     *index.Store
	refresher Refresher
	launcher  launch.Launcher
	icons     icons.Extractor
	history   History
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Engine. A nil refresher makes RefreshAppIndex a no-op and
// a nil launcher uses launch.ProcessLauncher.
func New(idx *index.Store, r Refresher, l launch.Launcher, opts ...Option) *Engine {
	if l == nil {
		l = launch.ProcessLauncher{}
	}
	e := &Engine{
		index:     idx,
		refresher: r,
		launcher:  l,
		icons:     icons.HashExtractor{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchApps returns the best matches for q.
func (e *Engine) SearchApps(q string) []apps.Record {
	if e.metrics != nil {
		e.metrics.Searches.Inc()
	}
	return e.index.Search(q)
}

// GetRecentApps returns recently and frequently used apps.
func (e *Engine) GetRecentApps() []apps.Record {
	return e.index.Recent()
}

// GetIndexStatus reports whether the index is building and its size.
func (e *Engine) GetIndexStatus() Status {
	st := e.index.Status()
	building := st.LastUpdate == 0
	if e.refresher != nil && e.refresher.Refreshing() {
		building = true
	}
	return Status{Building: building, AppCount: st.AppCount, LastUpdate: st.LastUpdate}
}

// OpenApp records an access to the app and launches it.
func (e *Engine) OpenApp(id string) error {
	rec, ok := e.index.RecordAccess(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAppNotFound, id)
	}

	e.logger.Info("launching app", zap.String("id", id), zap.String("path", rec.Path))
	err := e.launcher.Launch(rec.Path, "")
	if e.metrics != nil {
		e.metrics.ObserveLaunch(err)
	}
	e.journal(rec, err)

	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", rec.Name, err)
	}
	return nil
}

func (e *Engine) journal(rec apps.Record, launchErr error) {
	if e.history == nil {
		return
	}
	ev := &store.LaunchEvent{
		AppID:     rec.ID,
		AppName:   rec.Name,
		Path:      rec.Path,
		Success:   launchErr == nil,
		Timestamp: e.now(),
	}
	if launchErr != nil {
		ev.Error = launchErr.Error()
	}
	if err := e.history.InsertLaunchEvent(ev); err != nil {
		e.logger.Warn("failed to journal launch", zap.String("id", rec.ID), zap.Error(err))
	}
}

// RefreshAppIndex asks for a rebuild and reports whether one was
// scheduled.
func (e *Engine) RefreshAppIndex(force bool) bool {
	if e.refresher == nil {
		return false
	}
	return e.refresher.Request(force)
}

// AddManualApplication validates and inserts a user-supplied app, then
// saves the inventory. Invalid entries leave the inventory untouched.
func (e *Engine) AddManualApplication(name, path string) (apps.Record, error) {
	if err := merge.ValidateManual(name, path); err != nil {
		return apps.Record{}, err
	}
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)

	rec := e.index.AddManual(merge.ManualEntry{
		Name:     name,
		Path:     path,
		Category: classify.Categorize(path, name),
		Icon:     icons.For(e.icons, path),
	})
	if err := e.index.Flush(); err != nil {
		if e.metrics != nil {
			e.metrics.SaveFailures.Inc()
		}
		return rec, fmt.Errorf("failed to save app index: %w", err)
	}
	e.logger.Info("manual app added", zap.String("id", rec.ID), zap.String("name", rec.Name))
	return rec, nil
}
