package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "appdex" {
		t.Errorf("expected Use to be 'appdex', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	commands := RootCmd.Commands()

	expectedCommands := []string{"scan", "search", "recent", "status", "open", "add", "history", "serve"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"data-dir", "config", "log-level"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestRootCmd_Settings(t *testing.T) {
	if RootCmd.RunE == nil {
		t.Fatal("expected RootCmd.RunE to be set for bare invocation")
	}
	if RootCmd.SuggestionsMinimumDistance != 2 {
		t.Errorf("SuggestionsMinimumDistance = %d, want 2", RootCmd.SuggestionsMinimumDistance)
	}
	if !RootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !RootCmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
	if !strings.Contains(RootCmd.Long, "Quick Start") {
		t.Error("expected Long description to contain 'Quick Start' section")
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	defer RootCmd.SetOut(nil)

	RootCmd.SetArgs([]string{"--help"})
	defer RootCmd.SetArgs(nil)
	_ = RootCmd.Execute()

	out := buf.String()
	for _, want := range []string{"Usage:", "scan", "serve", "--data-dir"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help output to contain %q, got: %s", want, out)
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stderrBuf bytes.Buffer
	RootCmd.SetErr(&stderrBuf)
	defer RootCmd.SetErr(nil)
	RootCmd.SetOut(bytes.NewBuffer(nil))
	defer RootCmd.SetOut(nil)

	RootCmd.SetArgs([]string{"blorp"})
	defer RootCmd.SetArgs(nil)

	if err := Execute(); err == nil {
		t.Error("expected Execute() to return an error for unknown command")
	}
}

func TestDefaultDaemonFiles(t *testing.T) {
	dir := t.TempDir()
	old := dataDirFlag
	dataDirFlag = dir
	defer func() { dataDirFlag = old }()

	pid, err := getDefaultPIDFile()
	if err != nil {
		t.Fatalf("getDefaultPIDFile() error = %v", err)
	}
	if pid != filepath.Join(dir, "serve.pid") {
		t.Errorf("getDefaultPIDFile() = %q, want %q", pid, filepath.Join(dir, "serve.pid"))
	}

	logFile, err := getDefaultLogFile()
	if err != nil {
		t.Fatalf("getDefaultLogFile() error = %v", err)
	}
	if logFile != filepath.Join(dir, "serve.log") {
		t.Errorf("getDefaultLogFile() = %q, want %q", logFile, filepath.Join(dir, "serve.log"))
	}
}

func TestDiscoveryPath_Flag(t *testing.T) {
	old := configFlag
	configFlag = "/tmp/appdex-test.yaml"
	defer func() { configFlag = old }()

	path, err := discoveryPath()
	if err != nil {
		t.Fatalf("discoveryPath() error = %v", err)
	}
	if path != "/tmp/appdex-test.yaml" {
		t.Errorf("discoveryPath() = %q, want flag value", path)
	}
}
