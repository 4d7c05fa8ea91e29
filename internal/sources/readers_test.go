//go:build !windows

package sources

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/appdex/internal/apps"
)

func names(cs []apps.RawCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestTreeWalker_Scan(t *testing.T) {
	root := t.TempDir()
	writeExecutable(t, root, "editor/editor")
	writeExecutable(t, root, "suite/bin/viewer")
	writeExecutable(t, root, "deep/a/b/c/too-deep")
	writeExecutable(t, root, "editor/uninstall")
	writeFile(t, root, "editor/readme.txt", "docs")

	w := NewTreeWalker([]string{root}, 3, nil)
	got, err := w.Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"editor", "viewer"}, names(got))
	for _, c := range got {
		assert.Equal(t, apps.SourceFilesystem, c.Source)
	}
}

func TestTreeWalker_MissingRootDoesNotAbort(t *testing.T) {
	root := t.TempDir()
	writeExecutable(t, root, "app/player")

	w := NewTreeWalker([]string{filepath.Join(root, "missing"), root}, 0, nil)
	got, err := w.Scan()

	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, []string{"player"}, names(got))
}

func TestShortcutReader_Scan(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	desk := filepath.Join(dir, "Desktop")
	writeExecutable(t, bin, "editor")
	game := writeExecutable(t, bin, "game")
	tool := writeExecutable(t, desk, "Tools/portable-tool")
	writeFile(t, desk, "notes.txt", "hi")

	require.NoError(t, os.Symlink(game, filepath.Join(desk, "My Game")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(desk, "Broken")))
	writeFile(t, desk, "editor.desktop", "[Desktop Entry]\nType=Application\nName=Text Editor\nExec="+filepath.Join(bin, "editor")+" %F\n")
	writeFile(t, desk, "cmd.desktop", "[Desktop Entry]\nType=Application\nName=cmd\nExec="+filepath.Join(bin, "editor")+"\n")

	r := NewShortcutReader([]string{desk}, nil, nil)
	got, err := r.Scan()
	require.NoError(t, err)

	byName := make(map[string]string)
	for _, c := range got {
		assert.Equal(t, apps.SourceShortcut, c.Source)
		byName[c.Name] = c.Path
	}
	assert.Equal(t, map[string]string{
		"My Game":       game,
		"Text Editor":   filepath.Join(bin, "editor"),
		"portable-tool": tool,
	}, byName)
}

type stubResolver map[string]string

func (s stubResolver) Resolve(p string) (string, error) {
	if t, ok := s[filepath.Base(p)]; ok {
		return t, nil
	}
	return "", ErrNotShortcut
}

func TestShortcutReader_UsesResolver(t *testing.T) {
	dir := t.TempDir()
	exe := writeExecutable(t, dir, "bin/app")
	links := filepath.Join(dir, "links")
	writeFile(t, links, "Application.lnk", "not really a link")
	writeFile(t, links, "Other.lnk", "unresolvable")

	r := NewShortcutReader([]string{links}, stubResolver{"Application.lnk": exe}, nil)
	got, err := r.Scan()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, apps.RawCandidate{Name: "Application", Path: exe, Source: apps.SourceShortcut}, got[0])
}

type stubRecords struct {
	recs []InstallRecord
	err  error
}

func (s stubRecords) Records() ([]InstallRecord, error) { return s.recs, s.err }

func TestInstallReader_Scan(t *testing.T) {
	dir := t.TempDir()
	declared := writeExecutable(t, dir, "alpha/alpha")
	writeExecutable(t, dir, "beta/aaa-helper")
	betaMain := writeExecutable(t, dir, "beta/bin/beta-studio")
	gammaFirst := writeExecutable(t, dir, "gamma/a-launcher")
	writeExecutable(t, dir, "gamma/z-other")
	writeExecutable(t, dir, "delta/unins000")

	src := stubRecords{recs: []InstallRecord{
		{DisplayName: "Alpha", DisplayIcon: `"` + declared + `",0`},
		{DisplayName: "Beta Studio 2", DisplayIcon: filepath.Join(dir, "beta", "beta.ico"), InstallLocation: filepath.Join(dir, "beta")},
		{DisplayName: "Gamma", InstallLocation: filepath.Join(dir, "gamma")},
		{DisplayName: "Delta", InstallLocation: filepath.Join(dir, "delta")},
		{DisplayName: "Epsilon"},
		{DisplayName: "Uninstall Zeta", DisplayIcon: declared},
		{DisplayName: "   "},
	}}

	got, err := NewInstallReader(src, nil).Scan()
	require.NoError(t, err)
	assert.Equal(t, []apps.RawCandidate{
		{Name: "Alpha", Path: declared, Source: apps.SourceRegistry},
		{Name: "Beta Studio 2", Path: betaMain, Source: apps.SourceRegistry},
		{Name: "Gamma", Path: gammaFirst, Source: apps.SourceRegistry},
	}, got)
}

func TestInstallReader_SourceUnavailable(t *testing.T) {
	_, err := NewInstallReader(stubRecords{err: errors.New("access denied")}, nil).Scan()
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

func TestDeclaredExecutable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"C:\Program Files\App\app.exe",0`, `C:\Program Files\App\app.exe`},
		{`C:\App\app.exe, -101`, `C:\App\app.exe`},
		{"/usr/bin/app", "/usr/bin/app"},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, declaredExecutable(tt.in), "declaredExecutable(%q)", tt.in)
	}
}

func TestNameWords(t *testing.T) {
	assert.Equal(t, []string{"beta", "studio"}, nameWords("Beta Studio 2.0"))
}
