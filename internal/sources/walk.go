package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// isExecutableFile reports whether path names an existing executable,
// following symlinks.
func isExecutableFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return isExecutableInfo(path, info)
}

// openRoot resolves root through symlinks and checks that it is a
// readable directory.
func openRoot(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrSourceUnavailable, root)
	}
	return resolved, nil
}

// walkFiles calls visit for every non-directory entry at most maxDepth
// levels below root. Unreadable entries are skipped. visit may run on
// several goroutines at once.
func walkFiles(root string, maxDepth int, visit func(path string, d fs.DirEntry)) error {
	resolved, err := openRoot(root)
	if err != nil {
		return err
	}

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, resolved, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d == nil {
			return nil
		}
		depth := pathDepth(resolved, p)
		if depth == 0 {
			return nil
		}
		if d.IsDir() {
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		visit(p, d)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return nil
}

// pathDepth returns how many levels p lies below root (0 for root itself).
func pathDepth(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// collect walks root and gathers the candidates accepted by fn, sorted by
// path so results do not depend on walk order.
func collect(root string, maxDepth int, fn func(path string, d fs.DirEntry) (apps.RawCandidate, bool)) ([]apps.RawCandidate, error) {
	var (
		mu  sync.Mutex
		out []apps.RawCandidate
	)
	err := walkFiles(root, maxDepth, func(p string, d fs.DirEntry) {
		c, ok := fn(p, d)
		if !ok {
			return
		}
		mu.Lock()
		out = append(out, c)
		mu.Unlock()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}

// findExecutables returns every executable under dir up to maxDepth,
// sorted.
func findExecutables(dir string, maxDepth int) []string {
	found, _ := collect(dir, maxDepth, func(p string, d fs.DirEntry) (apps.RawCandidate, bool) {
		return apps.RawCandidate{Path: p}, entryIsExecutable(p, d)
	})
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.Path
	}
	return out
}

// entryIsExecutable checks a walked entry, following a symlink to its
// target.
func entryIsExecutable(p string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink != 0 {
		return isExecutableFile(p)
	}
	info, err := d.Info()
	if err != nil {
		return false
	}
	return isExecutableInfo(p, info)
}

// existingDirs filters dirs down to directories that exist, so built-in
// defaults never report a missing root as unavailable.
func existingDirs(dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
