package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the most recently used snapshots in memory.
type SnapshotStore struct {
	cache *lru.Cache[string, domain.Snapshot]
}

// NewSnapshotStore creates a store holding at most size snapshots.
func NewSnapshotStore(size int) (*SnapshotStore, error) {
	cache, err := lru.New[string, domain.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("create snapshot cache: %w", err)
	}
	return &SnapshotStore{cache: cache}, nil
}

// Get returns a copy of the cached snapshot for key.
func (s *SnapshotStore) Get(_ context.Context, key string) (*domain.Snapshot, bool, error) {
	snap, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &snap, true, nil
}

// Put stores a copy of snap under key.
func (s *SnapshotStore) Put(_ context.Context, key string, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	s.cache.Add(key, *snap)
	return nil
}

// Purge removes every snapshot.
func (s *SnapshotStore) Purge(_ context.Context) error {
	s.cache.Purge()
	return nil
}

// Len returns the number of cached snapshots.
func (s *SnapshotStore) Len() int {
	return s.cache.Len()
}

// Close is a no-op.
func (s *SnapshotStore) Close() error {
	return nil
}
