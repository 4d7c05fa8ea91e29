package sources

import (
	"errors"
	"io/fs"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// DefaultWalkDepth bounds how deep TreeWalker looks under each root.
const DefaultWalkDepth = 3

// TreeWalker finds executables directly under application roots.
type TreeWalker struct {
	roots  []string
	depth  int
	policy *Policy
}

// NewTreeWalker returns a walker over roots. depth <= 0 uses
// DefaultWalkDepth; a nil policy uses DefaultPolicy.
func NewTreeWalker(roots []string, depth int, policy *Policy) *TreeWalker {
	if depth <= 0 {
		depth = DefaultWalkDepth
	}
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &TreeWalker{roots: roots, depth: depth, policy: policy}
}

func (w *TreeWalker) Name() string { return apps.SourceFilesystem }

func (w *TreeWalker) Scan() ([]apps.RawCandidate, error) {
	var (
		out  []apps.RawCandidate
		errs []error
	)
	for _, root := range w.roots {
		found, err := collect(root, w.depth, func(p string, d fs.DirEntry) (apps.RawCandidate, bool) {
			if !entryIsExecutable(p, d) {
				return apps.RawCandidate{}, false
			}
			name := stemOf(p)
			if w.policy.Excluded(name, p) {
				return apps.RawCandidate{}, false
			}
			return apps.RawCandidate{Name: name, Path: p, Source: apps.SourceFilesystem}, true
		})
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, found...)
	}
	return out, errors.Join(errs...)
}
