package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <id|name>",
	Short: "Launch an application from the index",
	Long: `Launch an application by ID, unique ID prefix or exact name.

The launch is recorded in the index (usage count and last-used time) and
in the launch history, whether or not the process starts.`,
	Example: `  # Launch by ID prefix as shown in 'appdex search'
  appdex open 3f2a91c0

  # Launch by exact name
  appdex open "Visual Studio Code"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := resolveApp(e.index, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := e.engine.OpenApp(rec.ID); err != nil {
		return err
	}

	launches, err := e.history.CountLaunches(rec.ID)
	if err != nil {
		fmt.Printf("✓ Launched %s\n", rec.Name)
		return nil
	}
	fmt.Printf("✓ Launched %s (%d launches recorded)\n", rec.Name, launches)
	return nil
}
