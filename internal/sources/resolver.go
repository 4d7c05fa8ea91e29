package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileResolver resolves .lnk files, .desktop entries and symlinks. It
// never follows a link to something that is not an executable file.
type FileResolver struct{}

// Resolve returns the executable linkPath launches.
func (FileResolver) Resolve(linkPath string) (string, error) {
	switch strings.ToLower(filepath.Ext(linkPath)) {
	case ".lnk":
		sl, err := ReadShellLink(linkPath)
		if err != nil {
			return "", err
		}
		target := sl.Target
		if target == "" && sl.RelativePath != "" {
			target = filepath.Join(filepath.Dir(linkPath), filepath.FromSlash(strings.ReplaceAll(sl.RelativePath, `\`, "/")))
		}
		if target == "" {
			return "", fmt.Errorf("%s: shell link has no target", linkPath)
		}
		return target, nil

	case ".desktop":
		e, err := ReadDesktopEntry(linkPath)
		if err != nil {
			return "", err
		}
		if !e.Launchable() {
			return "", fmt.Errorf("%s: %w: not a launchable application", linkPath, ErrNotShortcut)
		}
		exe := e.Executable()
		if exe == "" {
			return "", fmt.Errorf("%s: program not found", linkPath)
		}
		return exe, nil
	}

	info, err := os.Lstat(linkPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", linkPath, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return "", fmt.Errorf("%s: %w", linkPath, ErrNotShortcut)
	}
	target, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", linkPath, err)
	}
	return target, nil
}
