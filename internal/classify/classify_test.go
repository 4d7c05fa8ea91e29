package classify

import (
	"testing"

	"github.com/blackwell-systems/appdex/internal/apps"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		appName  string
		expected string
	}{
		{"steam library game", `D:\SteamLibrary\steamapps\common\Portal\portal.exe`, "portal", apps.CategoryGames},
		{"epic path", `C:\Program Files\Epic Games\Launcher\EpicGamesLauncher.exe`, "EpicGamesLauncher", apps.CategoryGames},
		{"office suite", `C:\Program Files\Microsoft Office\root\Office16\WINWORD.EXE`, "WINWORD", apps.CategoryOffice},
		{"media path", `C:\Program Files\VLC\vlc.exe`, "vlc", apps.CategoryMedia},
		{"chat path", `C:\Users\me\AppData\Local\Discord\app-1.0\Discord.exe`, "Discord", apps.CategorySocial},
		{"design path", `C:\Program Files\Adobe\Photoshop\Photoshop.exe`, "Photoshop", apps.CategoryDesign},
		{"dev path", `C:\Program Files\JetBrains\GoLand\bin\goland64.exe`, "goland64", apps.CategoryDevelopment},
		{"system path", `C:\Windows\System32\notepad.exe`, "notepad", apps.CategorySystemTools},
		{"browser by name", `C:\Apps\Chrome\chrome.exe`, "Google Chrome", apps.CategoryBrowsers},
		{"office by name", `/opt/suite/bin/writer`, "LibreWriter", apps.CategoryOffice},
		{"game by name", `C:\Apps\x\x.exe`, "Minecraft Launcher", apps.CategoryGames},
		{"media by name", `/usr/bin/rhythmbox`, "Music Player", apps.CategoryMedia},
		{"dev by name", `C:\Apps\VSCode\Code.exe`, "Visual Studio Code", apps.CategoryDevelopment},
		{"design by name", `/usr/bin/mypaint`, "MyPaint", apps.CategoryDesign},
		{"utility by name", `C:\Apps\7z\7zFM.exe`, "7-Zip File Manager", apps.CategoryUtilities},
		{"vendor under program files", `C:\Program Files\Mozilla Firefox\firefox.exe`, "ff", apps.CategoryBrowsers},
		{"vendor under opt", `/opt/google/chrome/chrome`, "gc", apps.CategoryBrowsers},
		{"vendor under x86", `C:\Program Files (x86)\Valve\hl\hl.exe`, "hl", apps.CategoryGames},
		{"dir hint games", `E:\Games\Celeste\Celeste.exe`, "Celeste", apps.CategoryGames},
		{"dir hint development", `D:\Development\ide\ide.exe`, "ide", apps.CategoryDevelopment},
		{"dir hint creative", `D:\Creative\tool2\app.exe`, "sketchy", apps.CategoryDesign},
		{"default", `C:\Apps\Foo\foo.exe`, "Foo", apps.CategoryApplications},
		{"empty input", "", "", apps.CategoryApplications},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.path, tt.appName)
			if got != tt.expected {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.path, tt.appName, got, tt.expected)
			}
		})
	}
}

// A player inside an office suite directory must be filed by its path,
// not by the "player" name keyword.
func TestCategorize_PathBeforeName(t *testing.T) {
	got := Categorize(`C:\Program Files\Microsoft Office\root\Office16\player.exe`, "Media Player")
	if got != apps.CategoryOffice {
		t.Errorf("Categorize() = %q, want %q", got, apps.CategoryOffice)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	path, name := `C:\Program Files\Spotify\Spotify.exe`, "Spotify"
	first := Categorize(path, name)
	for i := 0; i < 50; i++ {
		if got := Categorize(path, name); got != first {
			t.Fatalf("run %d: Categorize() = %q, want %q", i, got, first)
		}
	}
}

func TestRules_OrderedPathBeforeName(t *testing.T) {
	rs := Rules()
	if len(rs) == 0 {
		t.Fatal("Rules() returned no rules")
	}

	lastStage := Stage(0)
	for i, r := range rs {
		if r.Stage < lastStage {
			t.Errorf("rule %d (stage %d) appears after stage %d", i, r.Stage, lastStage)
		}
		lastStage = r.Stage
		if r.Category == "" || len(r.Tokens) == 0 {
			t.Errorf("rule %d has empty category or tokens", i)
		}
	}

	// Mutating the returned slice must not affect classification.
	rs[0].Category = "Broken"
	if got := Categorize(`C:\Windows\System32\cmd.exe`, "cmd"); got != apps.CategorySystemTools {
		t.Errorf("Rules() exposed internal state: got %q", got)
	}
}

func TestVendorDir(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`C:\Program Files\Adobe\x.exe`, "adobe"},
		{`/opt/jetbrains/bin/idea`, "jetbrains"},
		{`C:\Program Files\x.exe`, ""},
		{`/usr/bin/vim`, ""},
	}
	for _, tt := range tests {
		if got := vendorDir(normalizePath(tt.path)); got != tt.want {
			t.Errorf("vendorDir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
