package cli

import (
	"context"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// Overrides adjusts settings for a single command.
// Zero values keep the configured setting.
type Overrides struct {
	// Provider replaces the LLM provider.
	Provider domain.AIProvider

	// Model replaces the LLM model.
	Model string

	// MaxFiles caps the file records fetched.
	MaxFiles int

	// Cache selects the snapshot cache backend.
	Cache domain.CacheBackend

	// Local reads a directory instead of GitHub.
	Local string
}

// Runtime supplies the services commands run against.
type Runtime interface {
	// Settings returns the settings service.
	Settings() driving.SettingsService

	// History returns the history shared by every README service built
	// from this runtime.
	History() driving.HistoryService

	// Readme builds a README service for the given overrides.
	Readme(opts Overrides) (driving.ReadmeService, error)

	// PurgeCache empties the configured snapshot cache.
	PurgeCache(ctx context.Context) error

	// WatchPrompts reloads prompt templates on change until ctx ends.
	WatchPrompts(ctx context.Context) error

	// Close releases every resource the runtime opened.
	Close() error
}

// RuntimeFactory creates a Runtime for the configuration directory.
// An empty directory selects the default.
type RuntimeFactory func(configDir string) (Runtime, error)
