// Package httpapi serves README generation over HTTP and WebSocket.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// ErrMissingReadmeService is returned when the README service is not provided.
var ErrMissingReadmeService = errors.New("httpapi: readme service is required")

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server exposes the README service over HTTP.
type Server struct {
	readme  driving.ReadmeService
	history driving.HistoryService
	handler http.Handler
}

// NewServer creates an HTTP server. history may be nil, in which case the
// history routes report empty listings.
func NewServer(readme driving.ReadmeService, history driving.HistoryService) (*Server, error) {
	if readme == nil {
		return nil, ErrMissingReadmeService
	}

	s := &Server{
		readme:  readme,
		history: history,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /generate_readme/{owner}/{repo}", s.handleGenerate)
	mux.HandleFunc("GET /generate_readme/{owner}/{repo}/preview", s.handlePreview)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /history/{id}", s.handleHistoryEntry)
	mux.HandleFunc("GET /ws/generate/{owner}/{repo}", s.handleGenerateWS)

	return requestID(accessLog(cors(mux)))
}

// Run listens on addr and serves until ctx is cancelled.
// It blocks until the server has shut down.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
