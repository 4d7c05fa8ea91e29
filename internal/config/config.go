// Package config provides runtime and discovery configuration for appdex.
//
// Runtime settings come from APPDEX_* environment variables. Discovery
// settings (extra roots, exclusions) live in a YAML file in the config
// directory, since they are lists users edit by hand.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration.
type Config struct {
	DataDir         string        `envconfig:"APPDEX_DATA_DIR"`
	TTL             time.Duration `envconfig:"APPDEX_TTL" default:"1h"`
	RefreshInterval time.Duration `envconfig:"APPDEX_REFRESH_INTERVAL" default:"6h"`
	Listen          string        `envconfig:"APPDEX_LISTEN" default:"127.0.0.1:7419"`
	LogLevel        string        `envconfig:"APPDEX_LOG_LEVEL" default:"info"`
	LogDevelopment  bool          `envconfig:"APPDEX_LOG_DEV" default:"false"`
	WatchShortcuts  bool          `envconfig:"APPDEX_WATCH_SHORTCUTS" default:"true"`
	WalkDepth       int           `envconfig:"APPDEX_WALK_DEPTH" default:"3"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TTL <= 0 || cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("failed to load config: TTL and refresh interval must be positive")
	}
	return &cfg, nil
}

// ResolveDataDir returns DataDir, defaulting to ~/.appdex.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return ExpandHome(c.DataDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".appdex"), nil
}

// Dir returns the appdex config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/appdex if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "appdex"), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !hasHomePrefix(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

func hasHomePrefix(p string) bool {
	return len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == '\\')
}
