package driving

import (
	"context"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// ReadmeService runs the repository to README pipeline.
type ReadmeService interface {
	// Preview fetches and classifies a repository without calling the LLM.
	Preview(ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc) (*domain.Preview, error)

	// Generate fetches, classifies and budgets a repository, then asks the
	// LLM for a README. The result is recorded in history.
	Generate(ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc) (*domain.Generation, error)

	// Analyze classifies already fetched records.
	Analyze(files []domain.FileRecord) *domain.ProjectProfile

	// LLMAvailable reports whether Generate can reach an LLM.
	LLMAvailable() bool
}
