package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// writeTree creates files below root. Keys ending in "/" create directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func paths(records []domain.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestSource_Fetch(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.py":                      "import streamlit as st\n",
		"requirements.txt":            "streamlit\n",
		"logo.png":                    "png",
		"blob.dat.txt":                "a\x00b",
		"latin1.txt":                  string([]byte{0xe9, 0x74, 0xe9}),
		"src/util.py":                 "def f(): pass\n",
		"node_modules/react/index.js": "module.exports = {}",
		"pkg/__pycache__/util.pyc":    "bytecode",
		".git/HEAD":                   "ref: refs/heads/main",
		".github/workflows/ci.yml":    "on: push",
	})
	source, err := NewSource(root, 0)
	require.NoError(t, err)

	records, err := source.Fetch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		".github",
		".github/workflows",
		".github/workflows/ci.yml",
		"app.py",
		"blob.dat.txt",
		"latin1.txt",
		"logo.png",
		"pkg",
		"requirements.txt",
		"src",
		"src/util.py",
	}, paths(records))

	byPath := map[string]domain.FileRecord{}
	for _, r := range records {
		byPath[r.Path] = r
	}
	text, ok := byPath["app.py"].Text()
	assert.True(t, ok)
	assert.Equal(t, "import streamlit as st\n", text)
	assert.Equal(t, int64(len("import streamlit as st\n")), byPath["app.py"].Size)

	assert.Equal(t, domain.KindDirectory, byPath["src"].Kind)
	assert.False(t, byPath["logo.png"].HasContent())
	assert.Equal(t, int64(3), byPath["logo.png"].Size)
	assert.False(t, byPath["blob.dat.txt"].HasContent(), "NUL byte")
	assert.False(t, byPath["latin1.txt"].HasContent(), "invalid UTF-8")
}

func TestSource_Fetch_MaxFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 8; i++ {
		files[fmt.Sprintf("f%d.go", i)] = "package x"
	}
	writeTree(t, root, files)
	source, err := NewSource(root, 3)
	require.NoError(t, err)

	records, err := source.Fetch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"f0.go", "f1.go", "f2.go"}, paths(records))
}

func TestSource_Fetch_LargeFile(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 1024*1024+1)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), big, 0644))
	source, err := NewSource(root, 0)
	require.NoError(t, err)

	records, err := source.Fetch(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasContent())
	assert.Equal(t, int64(len(big)), records[0].Size)
}

func TestSource_Resolve(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my project")
	writeTree(t, root, map[string]string{"main.go": "package main"})
	source, err := NewSource(root, 0)
	require.NoError(t, err)

	info, err := source.Resolve(context.Background(), source.Ref())

	require.NoError(t, err)
	assert.Equal(t, LocalOwner, info.Owner)
	assert.Equal(t, "my-project", info.Name)
	assert.Equal(t, "local/my-project", info.FullName)
	assert.Len(t, info.Revision, 16)
	assert.NoError(t, source.Ref().Validate())
}

func TestSource_Resolve_RevisionTracksChanges(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": "package main"})
	source, err := NewSource(root, 0)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := source.Resolve(ctx, source.Ref())
	require.NoError(t, err)
	again, err := source.Resolve(ctx, source.Ref())
	require.NoError(t, err)
	assert.Equal(t, first.Revision, again.Revision, "unchanged tree keeps its revision")

	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := source.Resolve(ctx, source.Ref())
	require.NoError(t, err)
	assert.NotEqual(t, first.Revision, changed.Revision)
}

func TestSource_MissingRoot(t *testing.T) {
	source, err := NewSource(filepath.Join(t.TempDir(), "absent"), 0)
	require.NoError(t, err)

	_, err = source.Resolve(context.Background(), source.Ref())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = source.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSource_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	source, err := NewSource(path, 0)
	require.NoError(t, err)

	_, err = source.Fetch(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_Fetch_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a"})
	source, err := NewSource(root, 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = source.Fetch(ctx, nil)

	assert.ErrorIs(t, err, context.Canceled)
}
