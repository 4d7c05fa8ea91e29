//go:build windows

package sources

import (
	"os"
	"path/filepath"
)

// DefaultShortcutDirs returns the desktop and start menu directories of the
// current user and of all users.
func DefaultShortcutDirs() []string {
	var dirs []string
	add := func(env string, elem ...string) {
		if base := os.Getenv(env); base != "" {
			dirs = append(dirs, filepath.Join(append([]string{base}, elem...)...))
		}
	}
	add("USERPROFILE", "Desktop")
	add("PUBLIC", "Desktop")
	add("APPDATA", "Microsoft", "Windows", "Start Menu", "Programs")
	add("ProgramData", "Microsoft", "Windows", "Start Menu", "Programs")
	return existingDirs(dirs)
}

// gameLibraryDirs are looked for at the root of every secondary drive.
var gameLibraryDirs = []string{
	filepath.Join("SteamLibrary", "steamapps", "common"),
	"Games",
	"Epic Games",
	"GOG Games",
}

// DefaultWalkRoots returns the program roots plus game libraries found on
// drives D: through Z:.
func DefaultWalkRoots() []string {
	var roots []string
	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		if v := os.Getenv(env); v != "" {
			roots = append(roots, v)
		}
	}
	if v := os.Getenv("LOCALAPPDATA"); v != "" {
		roots = append(roots, filepath.Join(v, "Programs"))
	}
	for d := 'D'; d <= 'Z'; d++ {
		drive := string(d) + `:\`
		if _, err := os.Stat(drive); err != nil {
			continue
		}
		for _, lib := range gameLibraryDirs {
			roots = append(roots, filepath.Join(drive, lib))
		}
	}
	return existingDirs(roots)
}
