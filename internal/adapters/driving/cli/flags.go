package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// overrideFlags binds the per-command settings overrides.
type overrideFlags struct {
	provider string
	model    string
	maxFiles int
	cache    string
	local    string
}

func (f *overrideFlags) register(cmd *cobra.Command, withLocal bool) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider (ollama, openai, anthropic, gemini)")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model name")
	cmd.Flags().IntVar(&f.maxFiles, "max-files", 0, "maximum files fetched per repository")
	cmd.Flags().StringVar(&f.cache, "cache", "", "snapshot cache (memory, sqlite, none)")
	if withLocal {
		cmd.Flags().StringVar(&f.local, "local", "", "read a local directory instead of GitHub")
	}
}

// overrides validates the flags and converts them.
func (f *overrideFlags) overrides() (Overrides, error) {
	o := Overrides{
		Model:    f.model,
		MaxFiles: f.maxFiles,
		Local:    f.local,
	}
	if f.provider != "" {
		o.Provider = domain.AIProvider(f.provider)
		if !o.Provider.IsValid() {
			return Overrides{}, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, f.provider)
		}
	}
	if f.cache != "" {
		o.Cache = domain.CacheBackend(f.cache)
		if !o.Cache.IsValid() {
			return Overrides{}, fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, f.cache)
		}
	}
	if f.maxFiles < 0 {
		return Overrides{}, fmt.Errorf("%w: --max-files must not be negative", domain.ErrInvalidInput)
	}
	return o, nil
}

// resolveTarget returns the repository a command works on: the positional
// argument, or a local directory when --local is set.
func resolveTarget(args []string, local string) (domain.RepoRef, error) {
	if local != "" {
		if len(args) > 0 {
			return domain.RepoRef{}, fmt.Errorf("%w: pass either a repository or --local", domain.ErrInvalidInput)
		}
		abs, err := filepath.Abs(local)
		if err != nil {
			return domain.RepoRef{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return domain.RepoRef{Owner: "local", Name: filepath.Base(abs)}, nil
	}
	if len(args) == 0 {
		return domain.RepoRef{}, fmt.Errorf("%w: a repository (owner/repo) is required", domain.ErrInvalidInput)
	}
	return domain.ParseRepoRef(args[0])
}
