package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
	assert.Equal(t, time.Hour, cfg.TTL)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "127.0.0.1:7419", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDevelopment)
	assert.True(t, cfg.WatchShortcuts)
	assert.Equal(t, 3, cfg.WalkDepth)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APPDEX_DATA_DIR", "/tmp/appdex-data")
	t.Setenv("APPDEX_TTL", "30m")
	t.Setenv("APPDEX_REFRESH_INTERVAL", "2h")
	t.Setenv("APPDEX_LISTEN", "127.0.0.1:9999")
	t.Setenv("APPDEX_LOG_LEVEL", "debug")
	t.Setenv("APPDEX_LOG_DEV", "true")
	t.Setenv("APPDEX_WATCH_SHORTCUTS", "false")
	t.Setenv("APPDEX_WALK_DEPTH", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/appdex-data", cfg.DataDir)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.Equal(t, 2*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.False(t, cfg.WatchShortcuts)
	assert.Equal(t, 5, cfg.WalkDepth)

	dir, err := cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/appdex-data", dir)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APPDEX_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APPDEX_TTL", "-1h")
	_, err = Load()
	assert.Error(t, err)
}

func TestDir_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "appdex"), dir)
}

func TestResolveDataDir_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	dir, err := (&Config{}).ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".appdex"), dir)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "Games"), ExpandHome("~/Games"))
	assert.Equal(t, "/opt/x", ExpandHome("/opt/x"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}

func TestLoadDiscovery_FileNotFound(t *testing.T) {
	cfg, err := LoadDiscovery(filepath.Join(t.TempDir(), DiscoveryFile))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.ExtraRoots)
	assert.Empty(t, cfg.Exclude)
}

func TestLoadDiscovery(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path := filepath.Join(t.TempDir(), DiscoveryFile)
	content := `# extra places to look
extra_roots:
  - ~/Games
  - /mnt/apps/
extra_shortcut_dirs:
  - ~/launchers
exclude:
  - "**/Portable/**"
allow:
  - cmd helper
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDiscovery(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, "Games"), filepath.Clean("/mnt/apps/")}, cfg.ExtraRoots)
	assert.Equal(t, []string{filepath.Join(home, "launchers")}, cfg.ExtraShortcutDirs)
	assert.Equal(t, []string{"**/Portable/**"}, cfg.Exclude)
	assert.Equal(t, []string{"cmd helper"}, cfg.Allow)
}

func TestLoadDiscovery_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DiscoveryFile)
	require.NoError(t, os.WriteFile(path, []byte("extra_roots: [unterminated\n"), 0644))

	_, err := LoadDiscovery(path)
	assert.Error(t, err)
}
