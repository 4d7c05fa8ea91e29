package sources

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blackwell-systems/appdex/internal/apps"
)

var defaultAllow = []string{"steam", "visual studio code", "vscode"}

// blacklist holds system utilities that are never offered as applications,
// compared against the lowercased display name or executable stem.
var blacklist = map[string]bool{
	"ipconfig":     true,
	"disksnapshot": true,
	"cmd":          true,
	"powershell":   true,
	"msconfig":     true,
	"eventvwr":     true,
	"taskmgr":      true,
	"chkdsk":       true,
	"sfc":          true,
	"diskpart":     true,
	"netsh":        true,
	"ping":         true,
	"tracert":      true,
	"rundll32":     true,
	"conhost":      true,
	"svchost":      true,
	"dllhost":      true,
}

var excludedNameTokens = []string{
	// uninstallers
	"uninstall", "remove",
	// updaters
	"update for", "security update", "hotfix", "updater",
	// redistributables and runtimes
	"redistributable", "vcredist", "runtime", "microsoft visual c++", "microsoft .net", "directx",
}

var excludedPathTokens = []string{
	"/windows/", "/system32/", "/syswow64/",
	"/usr/lib/", "/usr/libexec/", "/proc/",
	"/uninstall", "/uninst", "vcredist",
}

// Policy decides which candidates are system noise. It is immutable after
// construction and safe for concurrent use.
type Policy struct {
	allow []string
	globs []string
}

// DefaultPolicy returns the built-in policy with no configured additions.
func DefaultPolicy() *Policy {
	p, _ := NewPolicy(nil, nil)
	return p
}

// NewPolicy returns a policy extended with extra allow tokens and
// doublestar exclude globs. Globs are matched case-insensitively against
// the slash-separated executable path.
func NewPolicy(allow, excludeGlobs []string) (*Policy, error) {
	p := &Policy{allow: append([]string(nil), defaultAllow...)}
	for _, a := range allow {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			p.allow = append(p.allow, a)
		}
	}
	for _, g := range excludeGlobs {
		g = strings.ToLower(filepath.ToSlash(strings.TrimSpace(g)))
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

// Excluded reports whether the application with the given display name and
// executable path should be left out of the inventory.
func (p *Policy) Excluded(name, path string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if p.allowed(n) {
		return false
	}

	if utf8.RuneCountInString(n) <= 2 {
		return true
	}
	if blacklist[n] || strings.HasPrefix(n, "unins") {
		return true
	}
	for _, t := range excludedNameTokens {
		if strings.Contains(n, t) {
			return true
		}
	}
	if strings.Contains(n, "visual c++") && strings.Contains(n, "20") {
		return true
	}

	exe := strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
	for _, t := range excludedPathTokens {
		if strings.Contains(exe, t) {
			return true
		}
	}
	if stem := strings.ToLower(stemOf(path)); stem != n && (blacklist[stem] || strings.HasPrefix(stem, "unins")) {
		return true
	}
	for _, g := range p.globs {
		if ok, _ := doublestar.Match(g, exe); ok {
			return true
		}
	}
	return false
}

func (p *Policy) allowed(name string) bool {
	if name == "code" {
		return true
	}
	for _, a := range p.allow {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}

// stemOf returns the file name of path's executable without extension.
// Both separator styles are handled so Windows paths split correctly on
// any host.
func stemOf(path string) string {
	p := strings.ReplaceAll(apps.Executable(path), `\`, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	if ext := filepath.Ext(p); ext != "" && len(ext) <= 5 {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}
