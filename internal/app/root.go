package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/cache"
)

var (
	dataDirFlag  string
	configFlag   string
	logLevelFlag string

	// RootCmd is the root command for appdex
	RootCmd = &cobra.Command{
		Use:   "appdex",
		Short: "Application discovery and indexing for quick launchers",
		Long: `appdex finds the applications installed on this machine, keeps a
searchable inventory of them and launches them on request.

Applications are discovered from install records, Start-menu and desktop
shortcuts, XDG desktop entries and a bounded walk of program directories.
The inventory is cached in the data directory and refreshed when stale.

Quick Start:
  1. appdex scan
  2. appdex search code
  3. appdex serve --daemon   # keep the index fresh and serve the launcher API

Examples:
  # Rebuild the inventory even if it is fresh
  appdex scan --force

  # Find applications
  appdex search "visual studio"

  # Launch by ID prefix or exact name
  appdex open 3f2a91c0

  # Register an application discovery missed
  appdex add "My Tool" /opt/mytool/bin/mytool

  # Check inventory and daemon status
  appdex status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("appdex: application discovery and indexing")
			fmt.Println()
			if dir, err := dataDir(); err == nil {
				if _, err := os.Stat(cache.PathIn(dir)); os.IsNotExist(err) {
					fmt.Println("Run 'appdex scan' to build the application index.")
					fmt.Println("Run 'appdex --help' for the full reference.")
					return nil
				}
			}
			fmt.Println("Tip: Run 'appdex search <name>' to find an application.")
			fmt.Println("     Run 'appdex status' to check the index.")
			fmt.Println("     Run 'appdex --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: $APPDEX_DATA_DIR or ~/.appdex)")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "discovery config file (default: ~/.config/appdex/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Register subcommands
	RootCmd.AddCommand(scanCmd)
	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(recentCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(openCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(serveCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
