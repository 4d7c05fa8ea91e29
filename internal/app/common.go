package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/cache"
	"github.com/blackwell-systems/appdex/internal/config"
	"github.com/blackwell-systems/appdex/internal/engine"
	"github.com/blackwell-systems/appdex/internal/icons"
	"github.com/blackwell-systems/appdex/internal/index"
	"github.com/blackwell-systems/appdex/internal/logging"
	"github.com/blackwell-systems/appdex/internal/metrics"
	"github.com/blackwell-systems/appdex/internal/scanner"
	"github.com/blackwell-systems/appdex/internal/scheduler"
	"github.com/blackwell-systems/appdex/internal/sources"
	"github.com/blackwell-systems/appdex/internal/store"
)

const (
	historyFile = "history.db"
	pidFileName = "serve.pid"
	logFileName = "serve.log"
)

// env bundles the components a command works with.
type env struct {
	cfg       *config.Config
	discovery *config.Discovery
	dataDir   string
	logger    *logging.Logger
	metrics   *metrics.Metrics
	cache     *cache.Cache
	index     *index.Store
	history   *store.Store
	scanner   *scanner.Scanner
	scheduler *scheduler.Scheduler
	engine    *engine.Engine
}

// loadConfig reads APPDEX_* settings and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	return cfg, nil
}

// dataDir returns the resolved data directory without creating it.
func dataDir() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.ResolveDataDir()
}

// discoveryPath returns the --config value or the default config path.
func discoveryPath() (string, error) {
	if configFlag != "" {
		return config.ExpandHome(configFlag), nil
	}
	return config.DiscoveryPath()
}

// getDefaultPIDFile returns the serve daemon's PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return filepath.Join(dir, pidFileName), nil
}

// getDefaultLogFile returns the serve daemon's log file path
func getDefaultLogFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return filepath.Join(dir, logFileName), nil
}

// openEnv builds the inventory, history and refresh components.
// defaultLevel applies when --log-level is not given; empty means
// APPDEX_LOG_LEVEL.
func openEnv(defaultLevel string) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	level := defaultLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger, err := logging.New(logging.Config{Level: level, Development: cfg.LogDevelopment})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	path, err := discoveryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	disc, err := config.LoadDiscovery(path)
	if err != nil {
		return nil, err
	}
	policy, err := sources.NewPolicy(disc.Allow, disc.Exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery config: %w", err)
	}

	m := metrics.New()
	c := cache.New(cache.PathIn(dir), logger.Logger)
	idx := index.New(c.Load(), c, logger.Logger,
		index.WithSaveErrorHandler(func(error) { m.SaveFailures.Inc() }))

	history, err := store.Open(filepath.Join(dir, historyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	sc := scanner.New(scanner.DefaultReaders(scanner.Options{
		ExtraShortcutDirs: disc.ExtraShortcutDirs,
		ExtraRoots:        disc.ExtraRoots,
		WalkDepth:         cfg.WalkDepth,
		Policy:            policy,
	}), icons.HashExtractor{}, logger.Logger)

	sched, err := scheduler.New(sc, idx, scheduler.Config{TTL: cfg.TTL, Interval: cfg.RefreshInterval}, logger.Logger,
		scheduler.WithJournal(history),
		scheduler.WithMetrics(m))
	if err != nil {
		history.Close()
		return nil, err
	}

	eng := engine.New(idx, sched, nil,
		engine.WithHistory(history),
		engine.WithMetrics(m),
		engine.WithLogger(logger.Logger))

	return &env{
		cfg:       cfg,
		discovery: disc,
		dataDir:   dir,
		logger:    logger,
		metrics:   m,
		cache:     c,
		index:     idx,
		history:   history,
		scanner:   sc,
		scheduler: sched,
		engine:    eng,
	}, nil
}

// Close waits for pending saves and releases the history database.
func (e *env) Close() {
	e.scheduler.Stop()
	e.index.Wait()
	e.history.Close()
	_ = e.logger.Sync()
}

// shortcutDirs returns the directories the serve watcher observes.
func (e *env) shortcutDirs() []string {
	return append(sources.DefaultShortcutDirs(), e.discovery.ExtraShortcutDirs...)
}

// resolveApp finds a record by ID, unique ID prefix or exact name.
func resolveApp(idx *index.Store, ref string) (apps.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return apps.Record{}, fmt.Errorf("application ID or name cannot be empty")
	}
	if rec, ok := idx.Get(ref); ok {
		return rec, nil
	}

	inv := idx.Snapshot()
	var byPrefix, byName []apps.Record
	for id, rec := range inv.Apps {
		if strings.HasPrefix(id, ref) {
			byPrefix = append(byPrefix, rec)
		}
		if strings.EqualFold(rec.Name, ref) {
			byName = append(byName, rec)
		}
	}

	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byName) == 1:
		return byName[0], nil
	case len(byPrefix) > 1 || len(byName) > 1:
		return apps.Record{}, fmt.Errorf("%q matches more than one application, use a longer ID", ref)
	}
	return apps.Record{}, fmt.Errorf("%w: %s", engine.ErrAppNotFound, ref)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
