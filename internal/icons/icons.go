// Package icons produces opaque icon references for executables.
//
// Bitmap extraction belongs to the UI shell; the index only stores a
// reference the shell can resolve or cache against. A reference changes
// when the executable is replaced, so the shell knows to refetch.
package icons

import (
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// DefaultIcon is the reference used when no icon could be derived.
const DefaultIcon = "default-icon"

const refPrefix = "app-icon:"

// Extractor derives an icon reference for an executable path.
type Extractor interface {
	Extract(path string) (string, bool)
}

// HashExtractor derives references from the executable's identity and
// file metadata.
type HashExtractor struct{}

// Extract returns "app-icon:<hash>" for an existing regular file.
func (HashExtractor) Extract(path string) (string, bool) {
	exe := apps.Executable(path)
	if exe == "" {
		return "", false
	}
	info, err := os.Stat(exe)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	h := xxhash.New()
	h.WriteString(strings.ToLower(exe))
	fmt.Fprintf(h, "|%d|%d", info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%s%016x", refPrefix, h.Sum64()), true
}

// For returns ext's reference for path, or DefaultIcon on failure.
func For(ext Extractor, path string) string {
	if ext == nil {
		return DefaultIcon
	}
	if ref, ok := ext.Extract(path); ok && ref != "" {
		return ref
	}
	return DefaultIcon
}
