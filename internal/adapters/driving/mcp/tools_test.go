package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

func TestHandleAnalyze(t *testing.T) {
	readme := &mockReadmeService{preview: &domain.Preview{Repo: testRepo(), Profile: testProfile()}}
	srv, err := NewServer(&Ports{Readme: readme})
	require.NoError(t, err)

	_, out, err := srv.handleAnalyze(context.Background(), nil, RepositoryInput{Repository: "https://github.com/octo/demo@main"})

	require.NoError(t, err)
	assert.Equal(t, domain.RepoRef{Owner: "octo", Name: "demo", Ref: "main"}, readme.lastRef)
	assert.Equal(t, "octo/demo", out.Repository)
	assert.Equal(t, "web_application", out.Analysis.ProjectType)
	assert.Equal(t, []string{"flask"}, out.Analysis.Frameworks)
}

func TestHandleAnalyze_InvalidRepository(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{}})
	require.NoError(t, err)

	_, _, err = srv.handleAnalyze(context.Background(), nil, RepositoryInput{Repository: "not-a-repo"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandleAnalyze_ServiceError(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{err: domain.ErrNotFound}})
	require.NoError(t, err)

	_, _, err = srv.handleAnalyze(context.Background(), nil, RepositoryInput{Repository: "octo/missing"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleGenerate(t *testing.T) {
	gen := testGeneration("gen-1", time.Now())
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{gen: gen}})
	require.NoError(t, err)

	_, out, err := srv.handleGenerate(context.Background(), nil, RepositoryInput{Repository: "octo/demo"})

	require.NoError(t, err)
	assert.Equal(t, "gen-1", out.ID)
	assert.Equal(t, "octo/demo", out.Repository)
	assert.Equal(t, "# demo\n", out.Readme)
	assert.Equal(t, "llama3.2", out.Model)
	assert.Equal(t, int64(1500), out.DurationMS)
}

func TestHandleGenerate_LLMUnavailable(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{err: domain.ErrLLMUnavailable}})
	require.NoError(t, err)

	_, _, err = srv.handleGenerate(context.Background(), nil, RepositoryInput{Repository: "octo/demo"})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestHandleListHistory(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	history := &mockHistoryService{}
	for i, id := range []string{"a", "b", "c"} {
		history.Record(testGeneration(id, base.Add(time.Duration(i)*time.Minute)))
	}
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{}, History: history})
	require.NoError(t, err)

	_, out, err := srv.handleListHistory(context.Background(), nil, HistoryInput{Limit: 2})

	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "c", out.Generations[0].ID)
	assert.Equal(t, "b", out.Generations[1].ID)
}

func TestHandleListHistory_NoHistoryService(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{}})
	require.NoError(t, err)

	_, out, err := srv.handleListHistory(context.Background(), nil, HistoryInput{})

	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Generations)
}
