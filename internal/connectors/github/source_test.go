package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int    `json:"size,omitempty"`
}

// fakeGitHub serves the subset of the REST API the source uses.
type fakeGitHub struct {
	entries   []treeEntry
	blobs     map[string]string
	blobCalls atomic.Int32

	mu        sync.Mutex
	treeCalls []treeCall
}

// treeCall records one trees API request.
type treeCall struct {
	sha       string
	recursive bool
}

func (f *fakeGitHub) refs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]string, len(f.treeCalls))
	for i, c := range f.treeCalls {
		refs[i] = c.sha
	}
	return refs
}

func (f *fakeGitHub) calls() []treeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]treeCall(nil), f.treeCalls...)
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("repo") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		writeJSON(w, map[string]any{
			"name":             r.PathValue("repo"),
			"full_name":        r.PathValue("owner") + "/" + r.PathValue("repo"),
			"owner":            map[string]any{"login": r.PathValue("owner")},
			"description":      "A demo",
			"language":         "Python",
			"stargazers_count": 42,
			"forks_count":      7,
			"default_branch":   "main",
			"topics":           []string{"demo"},
			"license":          map[string]any{"spdx_id": "MIT", "name": "MIT License"},
		})
	})
	mux.HandleFunc("GET /api/v3/repos/{owner}/{repo}/git/trees/{sha}", func(w http.ResponseWriter, r *http.Request) {
		recursive := r.URL.Query().Get("recursive") != ""
		f.mu.Lock()
		f.treeCalls = append(f.treeCalls, treeCall{sha: r.PathValue("sha"), recursive: recursive})
		f.mu.Unlock()

		entries := f.entries
		if !recursive {
			entries = nil
			for _, e := range f.entries {
				if !strings.Contains(e.Path, "/") {
					entries = append(entries, e)
				}
			}
		}
		writeJSON(w, map[string]any{"sha": "tree123", "tree": entries, "truncated": false})
	})
	mux.HandleFunc("GET /api/v3/repos/{owner}/{repo}/git/blobs/{sha}", func(w http.ResponseWriter, r *http.Request) {
		f.blobCalls.Add(1)
		content, ok := f.blobs[r.PathValue("sha")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		// Mimic GitHub's line wrapping.
		var wrapped string
		for len(encoded) > 60 {
			wrapped += encoded[:60] + "\n"
			encoded = encoded[60:]
		}
		wrapped += encoded
		writeJSON(w, map[string]any{"sha": r.PathValue("sha"), "content": wrapped, "encoding": "base64"})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestSource(t *testing.T, fake *fakeGitHub, cfg Config) *Source {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseURL: server.URL + "/", RequestsPerSecond: 1000})
	require.NoError(t, err)
	return NewSource(client, cfg)
}

func TestSource_Resolve(t *testing.T) {
	fake := &fakeGitHub{}
	source := newTestSource(t, fake, Config{})

	info, err := source.Resolve(context.Background(), domain.RepoRef{Owner: "octo", Name: "demo"})

	require.NoError(t, err)
	assert.Equal(t, "octo", info.Owner)
	assert.Equal(t, "demo", info.Name)
	assert.Equal(t, "octo/demo", info.FullName)
	assert.Equal(t, "A demo", info.Description)
	assert.Equal(t, 42, info.Stars)
	assert.Equal(t, 7, info.Forks)
	assert.Equal(t, "MIT", info.License)
	assert.Equal(t, []string{"demo"}, info.Topics)
	assert.Equal(t, "tree123", info.Revision)
	assert.Equal(t, []string{"main"}, fake.refs())
}

func TestSource_Resolve_ExplicitRef(t *testing.T) {
	fake := &fakeGitHub{}
	source := newTestSource(t, fake, Config{})

	_, err := source.Resolve(context.Background(), domain.RepoRef{Owner: "octo", Name: "demo", Ref: "v1.2.0"})

	require.NoError(t, err)
	assert.Equal(t, []string{"v1.2.0"}, fake.refs())
}

func TestSource_Resolve_NotFound(t *testing.T) {
	source := newTestSource(t, &fakeGitHub{}, Config{})

	_, err := source.Resolve(context.Background(), domain.RepoRef{Owner: "octo", Name: "missing"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestSource_Resolve_InvalidRef(t *testing.T) {
	source := newTestSource(t, &fakeGitHub{}, Config{})

	_, err := source.Resolve(context.Background(), domain.RepoRef{Owner: "-bad", Name: "demo"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_Fetch(t *testing.T) {
	fake := &fakeGitHub{
		entries: []treeEntry{
			{Path: "README.md", Type: "blob", SHA: "b1", Size: 9},
			{Path: "node_modules", Type: "tree", SHA: "t0"},
			{Path: "node_modules/react/index.js", Type: "blob", SHA: "bx", Size: 10},
			{Path: "src", Type: "tree", SHA: "t1"},
			{Path: "src/app.py", Type: "blob", SHA: "b2", Size: 21},
			{Path: "src/__pycache__/app.cpython-312.pyc", Type: "blob", SHA: "by", Size: 100},
			{Path: "logo.png", Type: "blob", SHA: "b3", Size: 2048},
			{Path: "data.bin.txt", Type: "blob", SHA: "b4", Size: 3},
			{Path: "huge.txt", Type: "blob", SHA: "b5", Size: 2 * 1024 * 1024},
			{Path: "broken.txt", Type: "blob", SHA: "missing", Size: 5},
			{Path: "vendor/lib", Type: "commit", SHA: "c1"},
		},
		blobs: map[string]string{
			"b1": "# Demo\n\n",
			"b2": "import streamlit as st",
			"b3": "not fetched",
			"b4": "a\x00b",
		},
	}
	source := newTestSource(t, fake, Config{})
	info := &domain.RepoInfo{Owner: "octo", Name: "demo", FullName: "octo/demo", Revision: "tree123"}

	records, err := source.Fetch(context.Background(), info)

	require.NoError(t, err)
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	assert.Equal(t, []string{"README.md", "src", "src/app.py", "logo.png", "data.bin.txt", "huge.txt", "broken.txt"}, paths)

	text, ok := records[0].Text()
	assert.True(t, ok)
	assert.Equal(t, "# Demo\n\n", text)

	assert.Equal(t, domain.KindDirectory, records[1].Kind)

	text, ok = records[2].Text()
	assert.True(t, ok)
	assert.Equal(t, "import streamlit as st", text)
	assert.Equal(t, int64(21), records[2].Size)

	assert.False(t, records[3].HasContent(), "binary extension")
	assert.Equal(t, int64(2048), records[3].Size)
	assert.False(t, records[4].HasContent(), "NUL byte")
	assert.False(t, records[5].HasContent(), "over the size limit")
	assert.Equal(t, int64(2*1024*1024), records[5].Size)
	assert.False(t, records[6].HasContent(), "failed blob")

	// README, app.py, data.bin.txt and broken.txt are downloaded.
	assert.Equal(t, int32(4), fake.blobCalls.Load())
}

func TestSource_ResolveAndFetch_ListsTreeOnce(t *testing.T) {
	fake := &fakeGitHub{
		entries: []treeEntry{
			{Path: "app.py", Type: "blob", SHA: "b1", Size: 22},
			{Path: "pkg", Type: "tree", SHA: "t1"},
			{Path: "pkg/util.py", Type: "blob", SHA: "b2", Size: 1},
		},
		blobs: map[string]string{"b1": "import streamlit as st", "b2": "x"},
	}
	source := newTestSource(t, fake, Config{})

	info, err := source.Resolve(context.Background(), domain.RepoRef{Owner: "octo", Name: "demo"})
	require.NoError(t, err)
	records, err := source.Fetch(context.Background(), info)
	require.NoError(t, err)

	assert.Equal(t, []treeCall{
		{sha: "main", recursive: false},
		{sha: "tree123", recursive: true},
	}, fake.calls())
	require.Len(t, records, 3)
	assert.Equal(t, "pkg/util.py", records[2].Path)
}

func TestSource_Fetch_MaxFiles(t *testing.T) {
	var entries []treeEntry
	blobs := map[string]string{}
	for i := 0; i < 10; i++ {
		sha := "b" + strconv.Itoa(i)
		entries = append(entries, treeEntry{Path: "f" + strconv.Itoa(i) + ".py", Type: "blob", SHA: sha, Size: 1})
		blobs[sha] = "x"
	}
	fake := &fakeGitHub{entries: entries, blobs: blobs}
	source := newTestSource(t, fake, Config{MaxFiles: 3, Concurrency: 2})

	records, err := source.Fetch(context.Background(), &domain.RepoInfo{Owner: "octo", Name: "demo", Revision: "r"})

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "f0.py", records[0].Path)
	assert.Equal(t, "f2.py", records[2].Path)
	assert.Equal(t, int32(3), fake.blobCalls.Load())
}

func TestSource_Fetch_RequiresRevision(t *testing.T) {
	source := newTestSource(t, &fakeGitHub{}, Config{})

	_, err := source.Fetch(context.Background(), &domain.RepoInfo{Owner: "octo", Name: "demo"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_Fetch_Cancelled(t *testing.T) {
	source := newTestSource(t, &fakeGitHub{}, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Fetch(ctx, &domain.RepoInfo{Owner: "octo", Name: "demo", Revision: "r"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_RateLimited(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderRateLimit, "60")
		w.Header().Set(HeaderRateRemaining, "0")
		w.Header().Set(HeaderRateReset, strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseURL: server.URL + "/", RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, err = NewSource(client, Config{}).Resolve(context.Background(), domain.RepoRef{Owner: "octo", Name: "demo"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 0, client.RateLimiter().Remaining())
	assert.Equal(t, 60, client.RateLimiter().Limit())
}
