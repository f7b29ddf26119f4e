package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/dto"
)

var (
	analyzeFlags overrideFlags
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [owner/repo]",
	Short: "Classify a repository without generating a README",
	Long: `Fetch a repository and print its languages, frameworks, dependencies,
project type and test/doc flags. No LLM is called.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeFlags.register(analyzeCmd, true)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := analyzeFlags.overrides()
	if err != nil {
		return err
	}
	ref, err := resolveTarget(args, opts.Local)
	if err != nil {
		return err
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	readme, err := rt.Readme(opts)
	if err != nil {
		return err
	}

	progress := newProgressPrinter(cmd.ErrOrStderr())
	preview, err := readme.Preview(cmd.Context(), ref, progress.Func())
	progress.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), dto.NewPreview(preview))
	}
	writeProfile(cmd.OutOrStdout(), preview.Repo, preview.Profile)
	return nil
}
