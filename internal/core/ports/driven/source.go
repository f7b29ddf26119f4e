package driven

import (
	"context"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// RepositorySource resolves repository references and fetches their files.
// Implementations wrap their own errors around the domain sentinels
// ErrNotFound, ErrRateLimited, ErrAuthRequired and ErrSourceUnavailable.
type RepositorySource interface {
	// Resolve looks up repository metadata and pins the revision to fetch.
	Resolve(ctx context.Context, ref domain.RepoRef) (*domain.RepoInfo, error)

	// Fetch walks the repository at info.Revision and returns its records
	// in walk order. Per-file read failures yield records without content.
	Fetch(ctx context.Context, info *domain.RepoInfo) ([]domain.FileRecord, error)
}

