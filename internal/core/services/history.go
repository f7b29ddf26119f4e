package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistorySize is the number of generations kept by default.
const DefaultHistorySize = 10

// HistoryService keeps the most recent generations in memory.
// Nothing is persisted; history ends with the process.
type HistoryService struct {
	mu    sync.RWMutex
	items []*domain.Generation // oldest first
	limit int
}

// NewHistoryService creates a history holding at most limit generations.
// A non-positive limit uses DefaultHistorySize.
func NewHistoryService(limit int) *HistoryService {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &HistoryService{limit: limit}
}

// Record adds a generation, dropping the oldest beyond the limit.
func (h *HistoryService) Record(gen *domain.Generation) {
	if gen == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, gen)
	if over := len(h.items) - h.limit; over > 0 {
		h.items = append([]*domain.Generation(nil), h.items[over:]...)
	}
}

// List returns generations newest first.
func (h *HistoryService) List() []*domain.Generation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*domain.Generation, 0, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out = append(out, h.items[i])
	}
	return out
}

// Get returns the generation with the given ID.
func (h *HistoryService) Get(id string) (*domain.Generation, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, g := range h.items {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("generation %q: %w", id, domain.ErrNotFound)
}

// Clear removes every generation.
func (h *HistoryService) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
}
