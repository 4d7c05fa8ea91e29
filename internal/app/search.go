package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/output"
)

var (
	searchJSON bool

	searchCmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Search the application index",
		Long: `Search the index by name. Matches are case-insensitive substring
matches. Exact name matches come first, then the most-launched
applications, then alphabetical order. At most 10 results are returned.`,
		Example: `  appdex search code
  appdex search "visual studio" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	query := strings.Join(args, " ")
	results := e.engine.SearchApps(query)
	if searchJSON {
		return printJSON(results)
	}

	if len(results) == 0 && e.engine.GetIndexStatus().LastUpdate == 0 {
		fmt.Println("The index has not been built yet. Run 'appdex scan' first.")
		return nil
	}
	fmt.Print(output.RenderAppTable(results))
	return nil
}
