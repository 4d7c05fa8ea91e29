package sources

import (
	"errors"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// ErrSourceUnavailable marks a root directory or record store that could
// not be opened. The reader still returns candidates from its other roots.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrNotShortcut is returned by a Resolver for files it cannot resolve.
var ErrNotShortcut = errors.New("not a shortcut")

// Reader pulls raw candidates from one origin.
type Reader interface {
	// Name identifies the reader; it is also used as the candidate Source.
	Name() string
	// Scan returns every candidate found. A non-nil error reports roots
	// that were unavailable and does not invalidate the candidates.
	Scan() ([]apps.RawCandidate, error)
}

// Resolver resolves a shortcut file to the executable it launches.
type Resolver interface {
	Resolve(linkPath string) (string, error)
}
