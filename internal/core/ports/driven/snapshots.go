package driven

import (
	"context"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// SnapshotStore caches fetched repository snapshots by revision key.
// A nil SnapshotStore disables caching.
type SnapshotStore interface {
	// Get returns the snapshot for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) (*domain.Snapshot, bool, error)

	// Put stores a snapshot under key, replacing any previous entry.
	Put(ctx context.Context, key string, snap *domain.Snapshot) error

	// Purge removes every cached snapshot.
	Purge(ctx context.Context) error

	// Close releases resources.
	Close() error
}
