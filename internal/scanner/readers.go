package scanner

import "github.com/blackwell-systems/appdex/internal/sources"

// Options extends the platform's default discovery locations.
type Options struct {
	ExtraShortcutDirs []string
	ExtraRoots        []string
	// WalkDepth bounds the tree walk; 0 uses sources.DefaultWalkDepth.
	WalkDepth int
	Policy    *sources.Policy
}

// DefaultReaders returns the install-record, shortcut and tree readers for
// this platform, in that order.
func DefaultReaders(opts Options) []sources.Reader {
	policy := opts.Policy
	if policy == nil {
		policy = sources.DefaultPolicy()
	}

	shortcutDirs := append(sources.DefaultShortcutDirs(), opts.ExtraShortcutDirs...)
	roots := append(sources.DefaultWalkRoots(), opts.ExtraRoots...)

	return []sources.Reader{
		sources.NewInstallReader(sources.DefaultRecordSource(), policy),
		sources.NewShortcutReader(shortcutDirs, nil, policy),
		sources.NewTreeWalker(roots, opts.WalkDepth, policy),
	}
}
