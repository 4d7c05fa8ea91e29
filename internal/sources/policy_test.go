package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Excluded(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		appName  string
		path     string
		excluded bool
	}{
		{"regular app", "Spotify", `C:\Users\me\AppData\Roaming\Spotify\Spotify.exe`, false},
		{"linux app", "Firefox", "/usr/bin/firefox", false},
		{"short name", "qt", `C:\Apps\qt.exe`, true},
		{"blacklisted utility", "PowerShell", `C:\Tools\pwsh\powershell.exe`, true},
		{"uninstaller name", "Uninstall Foo", `C:\Program Files\Foo\foo.exe`, true},
		{"unins prefix", "unins000", `C:\Program Files\Foo\unins000.exe`, true},
		{"uninstaller stem", "Foo", `C:\Program Files\Foo\unins000.exe`, true},
		{"updater", "Foo Updater", `C:\Program Files\Foo\update.exe`, true},
		{"hotfix", "Hotfix for Office", `C:\Program Files\Office\x.exe`, true},
		{"redistributable", "Microsoft Visual C++ 2015 Redistributable", `C:\x\vc.exe`, true},
		{"visual c++ year", "Visual C++ 2019 x64", `C:\x\vc.exe`, true},
		{"dotnet runtime", "Microsoft .NET Runtime", `C:\x\dotnet.exe`, true},
		{"windows dir", "Notepad", `C:\Windows\notepad.exe`, true},
		{"system32", "Calculator", `C:\Windows\System32\calc.exe`, true},
		{"usr lib", "helper", "/usr/lib/foo/helper", true},
		{"steam allowed", "Steam", `C:\Program Files (x86)\Steam\steam.exe`, false},
		{"steam allowed under windows dir", "Steam Helper", `C:\Windows\steam\helper.exe`, false},
		{"vscode allowed", "Visual Studio Code", `C:\Users\me\AppData\Local\Programs\Microsoft VS Code\Code.exe`, false},
		{"code allowed", "Code", `C:\Apps\Code.exe`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, p.Excluded(tt.appName, tt.path))
		})
	}
}

func TestNewPolicy_ExtraRules(t *testing.T) {
	p, err := NewPolicy([]string{"Uninstall Helper"}, []string{"**/Portable/**", "/opt/*/bin/*-debug"})
	require.NoError(t, err)

	assert.False(t, p.Excluded("Uninstall Helper Pro", `C:\Apps\helper.exe`), "configured allow token wins")
	assert.True(t, p.Excluded("Tool", `D:\portable\tool\tool.exe`), "globs match case-insensitively")
	assert.True(t, p.Excluded("Viewer", "/opt/viewer/bin/viewer-debug"))
	assert.False(t, p.Excluded("Viewer", "/opt/viewer/bin/viewer"))
}

func TestNewPolicy_InvalidGlob(t *testing.T) {
	_, err := NewPolicy(nil, []string{"[unclosed"})
	assert.Error(t, err)
}

func TestStemOf(t *testing.T) {
	assert.Equal(t, "app", stemOf(`"C:\Program Files\App\app.exe" --x`))
	assert.Equal(t, "firefox", stemOf("/usr/bin/firefox %u"))
	assert.Equal(t, "", stemOf(""))
}
