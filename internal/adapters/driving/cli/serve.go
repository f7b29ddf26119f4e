package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

var (
	serveFlags overrideFlags
	serveAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the README generation HTTP API.

Endpoints:
  GET /                                   Service status
  GET /health                             Health and LLM availability
  GET /generate_readme/{owner}/{repo}     Generate a README
  GET /generate_readme/{owner}/{repo}/preview
                                          Analysis without the LLM
  GET /history                            Generations of this process
  GET /history/{id}                       One generation
  GET /ws/generate/{owner}/{repo}         WebSocket progress stream

Prompt templates are reloaded when their files change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd, false)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts, err := serveFlags.overrides()
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

	addr := serveAddr
	if addr == "" {
		settings, err := rt.Settings().Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.Addr
	}

	server, err := httpapi.NewServer(readme, rt.History())
	if err != nil {
		return err
	}
	if !readme.LLMAvailable() {
		cmd.PrintErrln("Warning: no LLM configured; generation endpoints will return 503.")
	}
	cmd.PrintErrf("readme-agent API listening on %s\n", addr)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	g.Go(func() error {
		if err := rt.WatchPrompts(ctx); err != nil && !errors.Is(err, context.Canceled) {
			// The API keeps serving with the templates already loaded.
			logger.Warn("Prompt watcher stopped: %v", err)
		}
		return nil
	})
	return g.Wait()
}
