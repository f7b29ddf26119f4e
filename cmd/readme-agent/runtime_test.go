package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestRuntime(t *testing.T) *runtime {
	t.Helper()
	rt, err := newRuntime(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt.(*runtime)
}

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "streamlit==1.30\npandas\n")
	writeFile(t, dir, "app.py", "import streamlit as st\n\nst.title('demo')\n")
	writeFile(t, dir, "tests/test_app.py", "def test_ok():\n    assert True\n")
	return dir
}

func TestNewRuntime(t *testing.T) {
	dir := t.TempDir()

	rt, err := newRuntime(dir)
	require.NoError(t, err)
	defer rt.Close()

	r := rt.(*runtime)
	assert.Equal(t, dir, r.dir)
	assert.Equal(t, filepath.Join(dir, "prompts"), r.prompts.Dir())
	assert.NotNil(t, rt.Settings())
	assert.Empty(t, rt.History().List())
}

func TestRuntime_PreviewLocal(t *testing.T) {
	rt := newTestRuntime(t)
	project := newProject(t)

	svc, err := rt.Readme(cli.Overrides{Local: project, Cache: domain.CacheBackendNone})
	require.NoError(t, err)

	preview, err := svc.Preview(context.Background(), domain.RepoRef{Owner: "local", Name: "demo"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "python", preview.Profile.PrimaryLanguage)
	assert.Contains(t, preview.Profile.Frameworks, "streamlit")
	assert.True(t, preview.Profile.HasTests)
}

func TestRuntime_MissingLocalDirectory(t *testing.T) {
	rt := newTestRuntime(t)

	_, err := rt.Readme(cli.Overrides{Local: filepath.Join(t.TempDir(), "missing")})

	assert.Error(t, err)
}

func TestRuntime_SnapshotStores(t *testing.T) {
	rt := newTestRuntime(t)
	cache := domain.CacheSettings{Size: 4}

	none, err := rt.snapshotStore(domain.CacheBackendNone, cache)
	require.NoError(t, err)
	assert.Nil(t, none)

	mem, err := rt.snapshotStore(domain.CacheBackendMemory, cache)
	require.NoError(t, err)
	require.NotNil(t, mem)
	again, err := rt.snapshotStore(domain.CacheBackendMemory, cache)
	require.NoError(t, err)
	assert.Same(t, mem, again)

	db, err := rt.snapshotStore(domain.CacheBackendSQLite, cache)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.FileExists(t, filepath.Join(rt.dir, "cache.db"))

	_, err = rt.snapshotStore("redis", cache)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRuntime_CachedPreview(t *testing.T) {
	rt := newTestRuntime(t)
	ref := domain.RepoRef{Owner: "local", Name: "demo"}

	svc, err := rt.Readme(cli.Overrides{Local: newProject(t), Cache: domain.CacheBackendMemory})
	require.NoError(t, err)
	_, err = svc.Preview(context.Background(), ref, nil)
	require.NoError(t, err)

	store, ok := rt.snapshots[domain.CacheBackendMemory].(*memory.SnapshotStore)
	require.True(t, ok)
	assert.Equal(t, 1, store.Len())

	var stages []domain.ProgressStage
	_, err = svc.Preview(context.Background(), ref, func(ev domain.ProgressEvent) {
		stages = append(stages, ev.Stage)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "an unchanged directory reuses its snapshot")

	assert.Contains(t, stages, domain.StageClassifying)
}

func TestRuntime_PurgeCache(t *testing.T) {
	rt := newTestRuntime(t)

	svc, err := rt.Readme(cli.Overrides{Local: newProject(t)})
	require.NoError(t, err)
	_, err = svc.Preview(context.Background(), domain.RepoRef{Owner: "local", Name: "demo"}, nil)
	require.NoError(t, err)

	store := rt.snapshots[domain.CacheBackendMemory].(*memory.SnapshotStore)
	require.Equal(t, 1, store.Len())

	require.NoError(t, rt.PurgeCache(context.Background()))
	assert.Zero(t, store.Len())
}

func TestRuntime_WatchPromptsStopsOnCancel(t *testing.T) {
	rt := newTestRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, rt.WatchPrompts(ctx))
}

func TestRuntime_Close(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.snapshotStore(domain.CacheBackendMemory, domain.CacheSettings{Size: 2})
	require.NoError(t, err)

	require.NoError(t, rt.Close())
	assert.Empty(t, rt.snapshots)
	assert.NoError(t, rt.Close(), "closing twice is a no-op")
}
