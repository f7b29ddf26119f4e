package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui"
)

var tuiFlags overrideFlags

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [owner/repo]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Enter a repository, preview its analysis and generate a README while the
pipeline reports progress. Generated READMEs are kept in the History view
for the rest of the session.

Controls:
  Enter    - Generate
  p        - Preview analysis
  /, i     - Edit repository
  Tab      - Switch between Generate and History
  ↑/k, ↓/j - Navigate
  Esc      - Back / Stop editing
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiFlags.register(tuiCmd, false)
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the TUI over the runtime's services.
func newTUIApp(cmd *cobra.Command, args []string) (*tui.App, error) {
	opts, err := tuiFlags.overrides()
	if err != nil {
		return nil, err
	}

	rt, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	readme, err := rt.Readme(opts)
	if err != nil {
		return nil, err
	}

	app, err := tui.NewApp(tui.NewPorts(readme, rt.History()))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if len(args) > 0 {
		app.WithRepository(args[0])
	}
	return app, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd, args)
	if err != nil {
		return err
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
