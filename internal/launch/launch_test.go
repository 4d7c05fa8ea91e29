package launch

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantExe  string
		wantArgs []string
	}{
		{"plain", "/usr/bin/editor", "/usr/bin/editor", nil},
		{"quoted with args", `"C:\Program Files\App\app.exe" --profile "My Profile"`, `C:\Program Files\App\app.exe`, []string{"--profile", "My Profile"}},
		{"exe with args", `C:\Tools\tool.exe /silent /x`, `C:\Tools\tool.exe`, []string{"/silent", "/x"}},
		{"dash args", "/opt/app/app -n 2", "/opt/app/app", []string{"-n", "2"}},
		{"empty", "  ", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exe, args := SplitCommandLine(tt.in)
			assert.Equal(t, tt.wantExe, exe)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestLaunch_Missing(t *testing.T) {
	err := ProcessLauncher{}.Launch(filepath.Join(t.TempDir(), "gone"), "")
	assert.True(t, errors.Is(err, ErrExecutableNotFound), "err = %v", err)

	err = ProcessLauncher{}.Launch("", "")
	assert.True(t, errors.Is(err, ErrExecutableNotFound))

	err = ProcessLauncher{}.Launch(t.TempDir(), "")
	assert.True(t, errors.Is(err, ErrExecutableNotFound), "directories are not launchable")
}
