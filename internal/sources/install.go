package sources

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// installDirDepth bounds the search for an executable inside an install
// location.
const installDirDepth = 2

// InstallRecord is one entry from the OS list of installed programs.
type InstallRecord struct {
	DisplayName string
	// DisplayIcon is the declared icon or launch field. It may be quoted
	// and carry an icon index ("C:\App\app.exe",0).
	DisplayIcon     string
	InstallLocation string
}

// RecordSource enumerates installation records.
type RecordSource interface {
	Records() ([]InstallRecord, error)
}

// InstallReader turns installation records into candidates.
type InstallReader struct {
	source RecordSource
	policy *Policy
}

// NewInstallReader returns a reader over src. A nil policy uses
// DefaultPolicy.
func NewInstallReader(src RecordSource, policy *Policy) *InstallReader {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &InstallReader{source: src, policy: policy}
}

func (r *InstallReader) Name() string { return apps.SourceRegistry }

// Scan resolves each record to an executable. Records that cannot be
// resolved, or that the policy excludes, are dropped.
func (r *InstallReader) Scan() ([]apps.RawCandidate, error) {
	recs, err := r.source.Records()
	if err != nil && len(recs) == 0 {
		return nil, fmt.Errorf("%w: install records: %v", ErrSourceUnavailable, err)
	}

	var out []apps.RawCandidate
	for _, rec := range recs {
		name := strings.TrimSpace(rec.DisplayName)
		if name == "" || r.policy.Excluded(name, rec.InstallLocation) {
			continue
		}
		exe := r.resolve(rec)
		if exe == "" || r.policy.Excluded(name, exe) {
			continue
		}
		out = append(out, apps.RawCandidate{Name: name, Path: exe, Source: apps.SourceRegistry})
	}
	return out, err
}

// resolve picks the record's executable: the declared icon field if it is
// an executable, else an executable in the install location whose name
// shares a word with the display name, else the first one found there.
func (r *InstallReader) resolve(rec InstallRecord) string {
	if exe := declaredExecutable(rec.DisplayIcon); exe != "" && isExecutableFile(exe) && !r.uninstaller(exe) {
		return exe
	}

	loc := strings.Trim(strings.TrimSpace(rec.InstallLocation), `"`)
	if loc == "" {
		return ""
	}
	var exes []string
	for _, p := range findExecutables(loc, installDirDepth) {
		if !r.uninstaller(p) {
			exes = append(exes, p)
		}
	}
	if len(exes) == 0 {
		return ""
	}

	words := nameWords(rec.DisplayName)
	for _, p := range exes {
		stem := strings.ToLower(stemOf(p))
		for _, w := range words {
			if strings.Contains(stem, w) {
				return p
			}
		}
	}
	return exes[0]
}

func (r *InstallReader) uninstaller(exe string) bool {
	stem := strings.ToLower(stemOf(exe))
	return strings.HasPrefix(stem, "unins") || strings.Contains(stem, "uninstall") ||
		stem == "update" || strings.Contains(stem, "updater")
}

var iconIndex = regexp.MustCompile(`,\s*-?\d+$`)

// declaredExecutable strips quoting and a trailing icon index from a
// DisplayIcon value.
func declaredExecutable(icon string) string {
	s := strings.TrimSpace(icon)
	s = iconIndex.ReplaceAllString(s, "")
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return ""
	}
	return filepath.Clean(s)
}

// nameWords splits a display name into lowercase words of at least three
// characters, ignoring version-like tokens.
func nameWords(name string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(f) >= 3 && !(f[0] >= '0' && f[0] <= '9') {
			out = append(out, f)
		}
	}
	return out
}
