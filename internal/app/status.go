package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/daemon"
	"github.com/blackwell-systems/appdex/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and daemon status",
	Long: `Show the size and age of the application index, the most recent
rebuild and whether the serve daemon is running.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.engine.GetIndexStatus()
	last, err := e.history.LastScanRun()
	if err != nil {
		return fmt.Errorf("failed to read scan history: %w", err)
	}

	fmt.Print(output.RenderStatus(st.Building, st.AppCount, st.LastUpdate, last))
	fmt.Printf("Cache:        %s\n", e.cache.Path())

	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return err
	}
	running, err := daemon.IsRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		fmt.Printf("Daemon:       running (serving on %s)\n", e.cfg.Listen)
	} else {
		fmt.Println("Daemon:       stopped (run 'appdex serve --daemon')")
	}

	if st.LastUpdate == 0 {
		fmt.Println()
		fmt.Println("The index has not been built yet. Run 'appdex scan' to build it.")
	}
	return nil
}
