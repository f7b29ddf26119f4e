package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Success(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{}})

	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.NotNil(t, srv.server)
}

func TestNewServer_MissingReadme(t *testing.T) {
	_, err := NewServer(&Ports{History: &mockHistoryService{}})

	assert.ErrorIs(t, err, ErrMissingReadmeService)
}

func TestRunHTTP_StopsOnCancel(t *testing.T) {
	srv, err := NewServer(&Ports{Readme: &mockReadmeService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunHTTP(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
