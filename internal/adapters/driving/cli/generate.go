package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/dto"
)

var (
	generateFlags overrideFlags
	generateOut   string
	generateDiff  bool
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [owner/repo]",
	Short: "Generate a README for a repository",
	Long: `Fetch a repository, classify it and ask the configured LLM to write
a README.

The repository may be given as owner/repo or as a GitHub URL. Use --local to
read a directory on disk instead.

Examples:
  readme-agent generate spf13/cobra
  readme-agent generate https://github.com/spf13/cobra --out README.md
  readme-agent generate --local . --diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateFlags.register(generateCmd, true)
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "write the README to a file")
	generateCmd.Flags().BoolVar(&generateDiff, "diff", false, "print a unified diff against the existing README.md")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the generation as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, err := generateFlags.overrides()
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
	if !readme.LLMAvailable() {
		return fmt.Errorf("no LLM configured: run 'readme-agent settings llm' or pass --provider")
	}

	progress := newProgressPrinter(cmd.ErrOrStderr())
	gen, err := readme.Generate(cmd.Context(), ref, progress.Func())
	progress.Stop()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if generateOut != "" {
		if err := os.WriteFile(generateOut, []byte(ensureNewline(gen.Readme)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", generateOut, err)
		}
		cmd.PrintErrf("Wrote %s (%d bytes, model %s, %s)\n",
			generateOut, len(gen.Readme), gen.Model, gen.Duration.Round(time.Millisecond))
	}

	out := cmd.OutOrStdout()
	switch {
	case generateJSON:
		return writeJSON(out, dto.NewGeneration(gen))
	case generateDiff:
		diff, err := unifiedDiff(gen.ExistingReadme, gen.Readme)
		if err != nil {
			return fmt.Errorf("failed to diff README: %w", err)
		}
		if diff == "" {
			_, err = fmt.Fprintln(out, "README.md is unchanged.")
			return err
		}
		_, err = fmt.Fprint(out, diff)
		return err
	case generateOut != "":
		return nil
	default:
		return writeMarkdown(out, gen.Readme, isTerminal(out))
	}
}
