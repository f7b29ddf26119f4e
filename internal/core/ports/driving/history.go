package driving

import "github.com/custodia-labs/readme-agent/internal/core/domain"

// HistoryService keeps the generations of the current process.
type HistoryService interface {
	// Record adds a generation, evicting the oldest beyond capacity.
	Record(gen *domain.Generation)

	// List returns generations newest first.
	List() []*domain.Generation

	// Get returns a generation by ID or domain.ErrNotFound.
	Get(id string) (*domain.Generation, error)

	// Clear removes every generation.
	Clear()
}
