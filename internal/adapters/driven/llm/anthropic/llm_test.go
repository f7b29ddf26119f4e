package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc, err := NewLLMService(Config{APIKey: "k", Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", svc.ModelName())
}

func TestLLMService_Chat_LiftsSystemMessage(t *testing.T) {
	var got messagesRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"# Demo"},{"type":"text","text":"\n"}]}`))
	})

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "You write READMEs."},
		{Role: driven.RoleUser, Content: "Describe octo/demo"},
	}, driven.ChatOptions{MaxTokens: 2500, Temperature: 0.7})

	require.NoError(t, err)
	assert.Equal(t, "# Demo\n", out)
	assert.Equal(t, "You write READMEs.", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, driven.RoleUser, got.Messages[0].Role)
	assert.Equal(t, 2500, got.MaxTokens)
}

func TestLLMService_Generate_DefaultMaxTokens(t *testing.T) {
	var got messagesRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	})

	out, err := svc.Generate(context.Background(), "hi", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1024, got.MaxTokens)
	assert.Empty(t, got.System)
}

func TestLLMService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"overloaded", 529, domain.ErrLLMUnavailable},
		{"unauthorized", http.StatusUnauthorized, domain.ErrLLMUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"x","message":"nope"}}`))
			})

			_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorContains(t, err, "nope")
		})
	}

	t.Run("empty content", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		})
		_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})
		assert.ErrorContains(t, err, "no response content")
	})
}

func TestLLMService_Ping(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	assert.NoError(t, svc.Ping(context.Background()))
}
