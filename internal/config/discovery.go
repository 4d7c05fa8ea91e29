package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DiscoveryFile is the discovery config file name inside Dir().
const DiscoveryFile = "config.yaml"

// Discovery holds user additions to application discovery.
type Discovery struct {
	// ExtraRoots are walked for executables in addition to the platform
	// defaults.
	ExtraRoots []string `yaml:"extra_roots"`
	// ExtraShortcutDirs are searched for shortcut files.
	ExtraShortcutDirs []string `yaml:"extra_shortcut_dirs"`
	// Exclude holds doublestar globs matched against executable paths.
	Exclude []string `yaml:"exclude"`
	// Allow holds name tokens that override every exclusion rule.
	Allow []string `yaml:"allow"`
}

// LoadDiscovery reads the discovery config at path. If the file does not
// exist, an empty config is returned without an error. "~/" prefixes in
// directory lists are expanded.
func LoadDiscovery(path string) (*Discovery, error) {
	cfg := &Discovery{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read discovery config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &Discovery{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, p := range cfg.ExtraRoots {
		cfg.ExtraRoots[i] = filepath.Clean(ExpandHome(p))
	}
	for i, p := range cfg.ExtraShortcutDirs {
		cfg.ExtraShortcutDirs[i] = filepath.Clean(ExpandHome(p))
	}
	return cfg, nil
}

// DiscoveryPath returns the default discovery config path.
func DiscoveryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DiscoveryFile), nil
}
