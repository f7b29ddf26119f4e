// Package cli implements the readme-agent command line.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/readme-agent/internal/logger"
)

var (
	// version is set by main from build flags.
	version = "dev"

	verbose   bool
	configDir string

	newRuntime RuntimeFactory
	current    Runtime
)

var rootCmd = &cobra.Command{
	Use:   "readme-agent",
	Short: "Generate README files from repository analysis",
	Long: `readme-agent classifies a repository's languages, frameworks,
dependencies and project type, selects its most informative files and asks
an LLM to write a README from them.

Repositories are read from GitHub (owner/repo) or from a local directory
with --local.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.readme-agent)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetRuntimeFactory sets the constructor used to build services once flags
// have been parsed.
func SetRuntimeFactory(factory RuntimeFactory) {
	newRuntime = factory
	current = nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := closeRuntime(); err == nil {
		err = closeErr
	}
	return err
}

// loadRuntime builds the runtime on first use.
func loadRuntime() (Runtime, error) {
	if current != nil {
		return current, nil
	}
	if newRuntime == nil {
		return nil, errors.New("runtime not configured")
	}
	rt, err := newRuntime(configDir)
	if err != nil {
		return nil, err
	}
	current = rt
	return current, nil
}

func closeRuntime() error {
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}
