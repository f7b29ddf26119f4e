package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/readme-agent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
)

// DefaultMaxSnapshots bounds the number of cached snapshots.
const DefaultMaxSnapshots = 64

// timeLayout stores UTC times with fixed width so that they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// dbFileName is the database file created in the data directory.
const dbFileName = "cache.db"

// Store is an SQLite database holding cached repository snapshots.
type Store struct {
	db           *sql.DB
	path         string
	maxSnapshots int
	now          func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.readme-agent/data/cache.db.
// A non-positive maxSnapshots uses DefaultMaxSnapshots.
func NewStore(dataDir string, maxSnapshots int) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".readme-agent", "data")
	}
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultMaxSnapshots
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:           db,
		path:         dbPath,
		maxSnapshots: maxSnapshots,
		now:          time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SnapshotStore returns a SnapshotStore interface backed by this store.
func (s *Store) SnapshotStore() driven.SnapshotStore {
	return &snapshotStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_snapshots.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version in a single transaction.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Snapshot Store ====================

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Get returns the snapshot stored under key and marks it as recently used.
func (s *snapshotStore) Get(ctx context.Context, key string) (*domain.Snapshot, bool, error) {
	var repoJSON, filesJSON, fetchedAt string

	err := s.store.db.QueryRowContext(ctx,
		"SELECT repo_json, files_json, fetched_at FROM snapshots WHERE cache_key = ?", key,
	).Scan(&repoJSON, &filesJSON, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying snapshot: %w", err)
	}

	snap := &domain.Snapshot{}
	if t, err := time.Parse(timeLayout, fetchedAt); err == nil {
		snap.FetchedAt = t
	}
	if err := json.Unmarshal([]byte(repoJSON), &snap.Repo); err != nil {
		return nil, false, fmt.Errorf("decoding repository info: %w", err)
	}
	if err := json.Unmarshal([]byte(filesJSON), &snap.Files); err != nil {
		return nil, false, fmt.Errorf("decoding files: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx,
		"UPDATE snapshots SET accessed_at = ? WHERE cache_key = ?", s.store.now().UTC().Format(timeLayout), key,
	); err != nil {
		return nil, false, fmt.Errorf("touching snapshot: %w", err)
	}

	return snap, true, nil
}

// Put stores snap under key, replacing any previous entry, and evicts the
// least recently used snapshots beyond the store limit.
func (s *snapshotStore) Put(ctx context.Context, key string, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	repoJSON, err := json.Marshal(snap.Repo)
	if err != nil {
		return fmt.Errorf("marshalling repository info: %w", err)
	}
	files := snap.Files
	if files == nil {
		files = []domain.FileRecord{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshalling files: %w", err)
	}

	now := s.store.now().UTC().Format(timeLayout)
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO snapshots (cache_key, owner, name, revision, repo_json, files_json, file_count, fetched_at, accessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			owner = excluded.owner,
			name = excluded.name,
			revision = excluded.revision,
			repo_json = excluded.repo_json,
			files_json = excluded.files_json,
			file_count = excluded.file_count,
			fetched_at = excluded.fetched_at,
			accessed_at = excluded.accessed_at
	`, key, snap.Repo.Owner, snap.Repo.Name, snap.Repo.Revision,
		string(repoJSON), string(filesJSON), snap.FileCount(), snap.FetchedAt.UTC().Format(timeLayout), now)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return s.evict(ctx)
}

// evict deletes the least recently used rows beyond the limit.
func (s *snapshotStore) evict(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE cache_key IN (
			SELECT cache_key FROM snapshots
			ORDER BY accessed_at DESC, cache_key ASC
			LIMIT -1 OFFSET ?
		)
	`, s.store.maxSnapshots)
	if err != nil {
		return fmt.Errorf("evicting snapshots: %w", err)
	}
	return nil
}

// Purge removes every snapshot.
func (s *snapshotStore) Purge(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("purging snapshots: %w", err)
	}
	return nil
}

// Count returns the number of stored snapshots.
func (s *snapshotStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}

// Close closes the underlying store.
func (s *snapshotStore) Close() error {
	return s.store.Close()
}
