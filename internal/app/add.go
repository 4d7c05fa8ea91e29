package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appdex/internal/output"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add an application discovery missed",
	Long: `Register an application by name and executable path. The entry is
classified like a discovered application, kept across rescans and saved
to the index immediately. Adding a path that is already indexed updates
its name.`,
	Example: `  appdex add "My Tool" /opt/mytool/bin/mytool
  appdex add Notepad++ "C:\Program Files\Notepad++\notepad++.exe"`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv("warn")
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.engine.AddManualApplication(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to add application: %w", err)
	}

	fmt.Println("✓ Application added")
	fmt.Println()
	fmt.Print(output.RenderAppDetail(rec))
	return nil
}
