package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T, maxSnapshots int) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), maxSnapshots)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// withClock makes the store return successive seconds from base.
func withClock(store *Store) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
}

func testSnapshot(name, revision string) *domain.Snapshot {
	return &domain.Snapshot{
		Repo: domain.RepoInfo{
			Owner:    "octo",
			Name:     name,
			FullName: "octo/" + name,
			Topics:   []string{"cli"},
			Revision: revision,
		},
		Files: []domain.FileRecord{
			domain.NewDirectory("src"),
			domain.NewFile("src/main.py", "print('hi')\n", 12),
			domain.NewBinaryFile("logo.png", 4096),
		},
		FetchedAt: time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, 0)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "cache.db"), store.Path())
	assert.Equal(t, DefaultMaxSnapshots, store.maxSnapshots)
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir, 4)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 4)
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, 4)
	require.NoError(t, err, "reopening must not re-run applied migrations")
	defer reopened.Close()

	var count int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSnapshotStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t, 4)
	snapshots := store.SnapshotStore()
	snap := testSnapshot("demo", "sha1")

	require.NoError(t, snapshots.Put(ctx, snap.Repo.CacheKey(), snap))

	got, ok, err := snapshots.Get(ctx, "octo/demo@sha1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.Repo, got.Repo)
	assert.True(t, snap.FetchedAt.Equal(got.FetchedAt))
	require.Len(t, got.Files, 3)
	assert.Equal(t, domain.KindDirectory, got.Files[0].Kind)

	text, present := got.Files[1].Text()
	assert.True(t, present)
	assert.Equal(t, "print('hi')\n", text)

	assert.False(t, got.Files[2].HasContent(), "absent content survives the round trip")
	assert.Equal(t, int64(4096), got.Files[2].Size)
}

func TestSnapshotStore_Get_Miss(t *testing.T) {
	store := setupTestStore(t, 4)

	got, ok, err := store.SnapshotStore().Get(context.Background(), "octo/none@x")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSnapshotStore_Put_Replaces(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t, 4)
	snapshots := store.SnapshotStore()

	first := testSnapshot("demo", "sha1")
	require.NoError(t, snapshots.Put(ctx, "k", first))
	second := testSnapshot("demo", "sha1")
	second.Repo.Description = "updated"
	require.NoError(t, snapshots.Put(ctx, "k", second))

	got, _, err := snapshots.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Repo.Description)

	n, err := snapshots.(*snapshotStore).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSnapshotStore_Put_Nil(t *testing.T) {
	store := setupTestStore(t, 4)

	err := store.SnapshotStore().Put(context.Background(), "k", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSnapshotStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t, 2)
	withClock(store)
	snapshots := store.SnapshotStore()

	require.NoError(t, snapshots.Put(ctx, "a", testSnapshot("a", "1")))
	require.NoError(t, snapshots.Put(ctx, "b", testSnapshot("b", "1")))
	_, ok, err := snapshots.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, snapshots.Put(ctx, "c", testSnapshot("c", "1")))

	_, ok, _ = snapshots.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	_, ok, _ = snapshots.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = snapshots.Get(ctx, "c")
	assert.True(t, ok)
}

func TestSnapshotStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t, 4)
	snapshots := store.SnapshotStore()
	require.NoError(t, snapshots.Put(ctx, "a", testSnapshot("a", "1")))

	require.NoError(t, snapshots.Purge(ctx))

	n, err := snapshots.(*snapshotStore).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSnapshotStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, 4)
	require.NoError(t, err)
	require.NoError(t, store.SnapshotStore().Put(ctx, "k", testSnapshot("demo", "sha1")))
	require.NoError(t, store.SnapshotStore().Close())

	reopened, err := NewStore(dir, 4)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.SnapshotStore().Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
