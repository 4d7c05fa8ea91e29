package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/output"
)

var (
	scanForce bool
	scanQuiet bool

	scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Discover installed applications and rebuild the index",
		Long: `Discover installed applications and merge them into the index.

The scan reads install records, shortcut directories and program
directories concurrently, classifies every candidate and merges the
result into the cached inventory. Usage counts and IDs of known
applications are preserved.

Without --force the scan only runs when the index is empty or older than
APPDEX_TTL (default 1h).`,
		Example: `  # Rebuild if stale
  appdex scan

  # Rebuild unconditionally
  appdex scan --force

  # Rebuild without progress output
  appdex scan --force --quiet`,
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "rebuild even if the index is fresh")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
}

func runScan(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	var bar *output.ProgressBar
	if !scanQuiet {
		bar = output.NewProgress(e.scanner.Readers(), "Scanning sources")
		e.scanner.OnReaderDone(func(reader string, found int) {
			bar.Step(fmt.Sprintf("%s: %d found", reader, found))
		})
	}

	out, err := e.scheduler.RefreshNow(scanForce)
	if out != nil && bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if out == nil {
		st := e.engine.GetIndexStatus()
		if !scanQuiet {
			fmt.Printf("Index is up to date (%d applications). Use --force to rescan.\n", st.AppCount)
		}
		return nil
	}

	if !scanQuiet {
		fmt.Println()
		fmt.Print(output.RenderScanSummary(out.Counts, out.Apps, out.Candidates, out.Failures, out.Duration))
	}
	return nil
}
