package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/output"
)

var (
	historyLimit int
	historyScans bool
	historyPrune time.Duration

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show launch and scan history",
		Long: `Show recorded application launches, newest first, or with --scans
the journal of index rebuilds.

Use --prune to delete launch events older than the given age.`,
		Example: `  # Last 20 launches
  appdex history

  # Last 50 rebuilds
  appdex history --scans --limit 50

  # Forget launches older than 90 days
  appdex history --prune 2160h`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historyScans, "scans", false, "show index rebuilds instead of launches")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete launch events older than this age")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	if historyPrune > 0 {
		n, err := e.history.PruneLaunchEvents(time.Now().Add(-historyPrune))
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		fmt.Printf("✓ Removed %d launch events\n", n)
		return nil
	}

	if historyScans {
		runs, err := e.history.ListScanRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read scan history: %w", err)
		}
		fmt.Print(output.RenderScanRunTable(runs))
		return nil
	}

	events, err := e.history.RecentLaunches(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read launch history: %w", err)
	}
	fmt.Print(output.RenderHistoryTable(events))
	return nil
}
