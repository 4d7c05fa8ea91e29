package sources

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// ShortcutDepth is how far below each shortcut directory links are found.
const ShortcutDepth = 5

// ShortcutReader discovers applications through shortcut files.
type ShortcutReader struct {
	dirs     []string
	resolver Resolver
	policy   *Policy
}

// NewShortcutReader returns a reader over dirs. A nil resolver uses
// FileResolver; a nil policy uses DefaultPolicy.
func NewShortcutReader(dirs []string, resolver Resolver, policy *Policy) *ShortcutReader {
	if resolver == nil {
		resolver = FileResolver{}
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &ShortcutReader{dirs: dirs, resolver: resolver, policy: policy}
}

func (r *ShortcutReader) Name() string { return apps.SourceShortcut }

// Scan walks every shortcut directory. Missing directories are reported in
// the returned error; the others are still scanned.
func (r *ShortcutReader) Scan() ([]apps.RawCandidate, error) {
	var (
		out  []apps.RawCandidate
		errs []error
	)
	for _, dir := range r.dirs {
		found, err := collect(dir, ShortcutDepth, r.candidate)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, found...)
	}
	return out, errors.Join(errs...)
}

func (r *ShortcutReader) candidate(p string, d fs.DirEntry) (apps.RawCandidate, bool) {
	ext := strings.ToLower(filepath.Ext(p))
	isLink := ext == ".lnk" || ext == ".desktop" || d.Type()&fs.ModeSymlink != 0

	var target string
	switch {
	case isLink:
		t, err := r.resolver.Resolve(p)
		if err != nil {
			return apps.RawCandidate{}, false
		}
		target = t
	case entryIsExecutable(p, d):
		target = p
	default:
		return apps.RawCandidate{}, false
	}

	if !isExecutableFile(apps.Executable(target)) {
		return apps.RawCandidate{}, false
	}

	name := shortcutName(p)
	if name == "" || r.policy.Excluded(name, target) {
		return apps.RawCandidate{}, false
	}
	return apps.RawCandidate{Name: name, Path: target, Source: apps.SourceShortcut}, true
}

// shortcutName is the display name for a link: the Name= key of a desktop
// entry, otherwise the file name without extension.
func shortcutName(p string) string {
	if strings.EqualFold(filepath.Ext(p), ".desktop") {
		if e, err := ReadDesktopEntry(p); err == nil && e.Name != "" {
			return e.Name
		}
	}
	base := filepath.Base(p)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
