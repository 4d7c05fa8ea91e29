// Package launch starts applications from their inventory path.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// ErrExecutableNotFound is returned when the path no longer points at a
// file.
var ErrExecutableNotFound = errors.New("executable not found")

// Launcher starts an application.
type Launcher interface {
	// Launch starts path in workDir. An empty workDir uses the
	// executable's directory.
	Launch(path, workDir string) error
}

// ProcessLauncher starts applications as detached child processes.
type ProcessLauncher struct{}

// Launch splits path into executable and arguments and starts it without
// waiting for it to exit.
func (ProcessLauncher) Launch(path, workDir string) error {
	exe, args := SplitCommandLine(path)
	if exe == "" {
		return fmt.Errorf("%w: empty path", ErrExecutableNotFound)
	}
	info, err := os.Stat(exe)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, exe)
	}
	if workDir == "" {
		workDir = filepath.Dir(exe)
	}

	cmd := exec.Command(exe, args...)
	cmd.Dir = workDir
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", exe, err)
	}
	// Reap the child when it exits; the launcher never waits on it.
	go cmd.Wait()
	return nil
}

// SplitCommandLine separates a stored path into the executable and its
// launch arguments. Quoted arguments keep their spaces.
func SplitCommandLine(path string) (string, []string) {
	p := strings.TrimSpace(path)
	exe := apps.Executable(p)
	if exe == "" {
		return "", nil
	}

	rest := p
	if strings.HasPrefix(rest, `"`) {
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			rest = rest[end+2:]
		} else {
			rest = ""
		}
	} else {
		rest = strings.TrimPrefix(rest, exe)
	}
	return exe, splitArgs(rest)
}

func splitArgs(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		hasArg  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasArg = true
		case !inQuote && (r == ' ' || r == '\t'):
			if hasArg {
				args = append(args, cur.String())
				cur.Reset()
				hasArg = false
			}
		default:
			cur.WriteRune(r)
			hasArg = true
		}
	}
	if hasArg {
		args = append(args, cur.String())
	}
	return args
}
