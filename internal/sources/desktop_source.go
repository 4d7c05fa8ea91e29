package sources

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DesktopSource reads installed applications from freedesktop.org
// application directories.
type DesktopSource struct {
	dirs []string
}

// NewDesktopSource returns a source over dirs.
func NewDesktopSource(dirs []string) *DesktopSource {
	return &DesktopSource{dirs: dirs}
}

// XDGApplicationDirs returns $XDG_DATA_HOME/applications followed by
// applications/ under each $XDG_DATA_DIRS entry, with the usual defaults.
func XDGApplicationDirs() []string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}

	var out []string
	if dataHome != "" {
		out = append(out, filepath.Join(dataHome, "applications"))
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d != "" {
			out = append(out, filepath.Join(d, "applications"))
		}
	}
	return out
}

// Records returns one record per launchable desktop entry. An entry id
// (its path relative to the applications dir) seen in an earlier
// directory shadows later ones.
func (s *DesktopSource) Records() ([]InstallRecord, error) {
	var (
		out  []InstallRecord
		errs []error
		seen = make(map[string]bool)
	)
	for _, dir := range s.dirs {
		var (
			mu    sync.Mutex
			paths []string
		)
		err := walkFiles(dir, 2, func(p string, d fs.DirEntry) {
			if strings.HasSuffix(p, ".desktop") {
				mu.Lock()
				paths = append(paths, p)
				mu.Unlock()
			}
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sort.Strings(paths)

		root, _ := openRoot(dir)
		for _, p := range paths {
			id, _ := filepath.Rel(root, p)
			if seen[id] {
				continue
			}
			seen[id] = true

			e, err := ReadDesktopEntry(p)
			if err != nil || !e.Launchable() {
				continue
			}
			exe := e.Executable()
			if exe == "" {
				continue
			}
			out = append(out, InstallRecord{DisplayName: e.Name, DisplayIcon: exe, InstallLocation: e.Path})
		}
	}
	return out, errors.Join(errs...)
}
