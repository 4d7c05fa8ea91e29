package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/output"
)

var (
	recentJSON bool

	recentCmd = &cobra.Command{
		Use:   "recent",
		Short: "List recently launched applications",
		Long: `List the applications launched most recently, newest first. When
fewer than five applications were ever launched, the list is topped up
with the most-launched remaining applications.`,
		Example: `  appdex recent
  appdex recent --json`,
		Args: cobra.NoArgs,
		RunE: runRecent,
	}
)

func init() {
	recentCmd.Flags().BoolVar(&recentJSON, "json", false, "print results as JSON")
}

func runRecent(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	results := e.engine.GetRecentApps()
	if recentJSON {
		return printJSON(results)
	}
	fmt.Print(output.RenderAppTable(results))
	return nil
}
