package github

import (
	"github.com/custodia-labs/readme-agent/internal/connectors"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// DefaultConcurrency is the number of blobs fetched at once.
const DefaultConcurrency = 4

// Config holds the fetch limits of a Source.
type Config struct {
	// MaxFiles caps the file records produced per fetch.
	MaxFiles int

	// Concurrency bounds parallel blob requests.
	Concurrency int

	// MaxBlobSize is the largest blob whose content is downloaded.
	MaxBlobSize int64
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxFiles:    connectors.DefaultMaxFiles,
		Concurrency: DefaultConcurrency,
		MaxBlobSize: connectors.MaxContentSize,
	}
}

// ConfigFromSettings derives a Config from the GitHub settings.
// Non-positive values fall back to the defaults.
func ConfigFromSettings(settings domain.GitHubSettings) Config {
	cfg := DefaultConfig()
	if settings.MaxFiles > 0 {
		cfg.MaxFiles = settings.MaxFiles
	}
	return cfg
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxFiles <= 0 {
		c.MaxFiles = d.MaxFiles
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.MaxBlobSize <= 0 {
		c.MaxBlobSize = d.MaxBlobSize
	}
	return c
}
