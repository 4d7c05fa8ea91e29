//go:build !windows

package sources

import (
	"os"
	"path/filepath"
)

// DefaultShortcutDirs returns the user's desktop directory followed by the
// XDG application directories that exist. Entries also read as desktop
// records are folded together by identity key during the merge.
func DefaultShortcutDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Desktop"))
	}
	return existingDirs(append(dirs, XDGApplicationDirs()...))
}

// DefaultWalkRoots returns the conventional locations of self-contained
// application installs.
func DefaultWalkRoots() []string {
	roots := []string{"/opt", "/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots,
			filepath.Join(home, "Applications"),
			filepath.Join(home, ".local", "bin"),
		)
	}
	return existingDirs(roots)
}
