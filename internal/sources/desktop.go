package sources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DesktopEntry holds the keys of a freedesktop.org .desktop file that
// discovery cares about. Localized keys (Name[de]) are ignored.
type DesktopEntry struct {
	Type      string
	Name      string
	Exec      string
	TryExec   string
	Path      string
	NoDisplay bool
	Hidden    bool
}

// Launchable reports whether the entry describes an application a user
// would pick from a launcher.
func (e DesktopEntry) Launchable() bool {
	return e.Type == "Application" && !e.NoDisplay && !e.Hidden && e.Exec != ""
}

// ReadDesktopEntry parses the .desktop file at path.
func ReadDesktopEntry(path string) (DesktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return DesktopEntry{}, fmt.Errorf("failed to open desktop entry: %w", err)
	}
	defer f.Close()

	e, err := ParseDesktopEntry(f)
	if err != nil {
		return DesktopEntry{}, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// ParseDesktopEntry reads the [Desktop Entry] group from r.
func ParseDesktopEntry(r io.Reader) (DesktopEntry, error) {
	var (
		e       DesktopEntry
		inGroup bool
		found   bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inGroup = line == "[Desktop Entry]"
			found = found || inGroup
			continue
		}
		if !inGroup {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "Type":
			e.Type = value
		case "Name":
			e.Name = value
		case "Exec":
			e.Exec = value
		case "TryExec":
			e.TryExec = value
		case "Path":
			e.Path = value
		case "NoDisplay":
			e.NoDisplay = value == "true"
		case "Hidden":
			e.Hidden = value == "true"
		}
	}
	if err := sc.Err(); err != nil {
		return DesktopEntry{}, fmt.Errorf("failed to read desktop entry: %w", err)
	}
	if !found {
		return DesktopEntry{}, fmt.Errorf("no [Desktop Entry] group")
	}
	return e, nil
}

// flatpakExports are the directories where flatpak publishes a launcher
// script per installed application id.
func flatpakExports() []string {
	dirs := []string{"/var/lib/flatpak/exports/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "flatpak", "exports", "bin"))
	}
	return dirs
}

// Executable resolves the program the entry launches to an absolute path.
// Field codes and launch arguments are dropped. Entries run through
// "flatpak run" resolve to the exported launcher for their application id.
// It returns "" when the program cannot be found.
func (e DesktopEntry) Executable() string {
	if e.TryExec != "" && lookPath(e.TryExec) == "" {
		return ""
	}

	args := splitExec(e.Exec)
	for len(args) > 0 && (filepath.Base(args[0]) == "env" || strings.Contains(args[0], "=")) {
		args = args[1:]
	}
	if len(args) == 0 {
		return ""
	}

	if filepath.Base(args[0]) == "flatpak" {
		id := flatpakAppID(args[1:])
		if id == "" {
			return ""
		}
		for _, dir := range flatpakExports() {
			if p := filepath.Join(dir, id); isExecutableFile(p) {
				return p
			}
		}
		return ""
	}
	return lookPath(args[0])
}

func lookPath(prog string) string {
	if filepath.IsAbs(prog) {
		if isExecutableFile(prog) {
			return prog
		}
		return ""
	}
	p, err := exec.LookPath(prog)
	if err != nil {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// flatpakAppID returns the application id from "flatpak run" arguments:
// the first argument after "run" that is not an option.
func flatpakAppID(args []string) string {
	seenRun := false
	for _, a := range args {
		switch {
		case a == "run":
			seenRun = true
		case strings.HasPrefix(a, "-"), strings.HasPrefix(a, "@@"):
		case seenRun:
			return a
		}
	}
	return ""
}

// splitExec splits an Exec value into arguments, honoring double quotes
// and backslash escapes inside them, and dropping %-field codes.
func splitExec(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		hasArg  bool
	)
	flush := func() {
		if hasArg {
			a := cur.String()
			if !(len(a) == 2 && a[0] == '%') {
				args = append(args, a)
			}
		}
		cur.Reset()
		hasArg = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			hasArg = true
		case !inQuote && (c == ' ' || c == '\t'):
			flush()
		default:
			cur.WriteByte(c)
			hasArg = true
		}
	}
	flush()
	return args
}
