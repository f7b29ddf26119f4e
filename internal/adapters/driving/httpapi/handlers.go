package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/dto"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// rootResponse describes the service.
type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
}

// healthResponse reports liveness and LLM availability.
type healthResponse struct {
	Status           string `json:"status"`
	AgentInitialized bool   `json:"agent_initialized"`
}

// generateResponse is returned by the generate route.
type generateResponse struct {
	Success    bool   `json:"success"`
	Repository string `json:"repository"`
	Readme     string `json:"readme"`
	Message    string `json:"message"`
	ID         string `json:"id"`
	Model      string `json:"model"`
}

// historyResponse lists recent generations.
type historyResponse struct {
	Generations []dto.HistoryEntry `json:"generations"`
	Count       int                `json:"count"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "AI README Generator API",
		Status:  "active",
		Docs:    "/docs",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		AgentInitialized: s.readme.LLMAvailable(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ref, err := repoRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	gen, err := s.readme.Generate(r.Context(), ref, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:    true,
		Repository: ref.FullName(),
		Readme:     gen.Readme,
		Message:    "README generated successfully",
		ID:         gen.ID,
		Model:      gen.Model,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ref, err := repoRef(r)
	if err != nil {
		writeError(w, err)
		return
	}

	preview, err := s.readme.Preview(r.Context(), ref, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := json.Marshal(dto.NewPreview(preview))
	if err != nil {
		writeError(w, fmt.Errorf("encoding preview: %w", err))
		return
	}

	tag := etag(body)
	w.Header().Set("ETag", tag)
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := []dto.HistoryEntry{}
	if s.history != nil {
		entries = dto.NewHistory(s.history.List())
	}
	writeJSON(w, http.StatusOK, historyResponse{Generations: entries, Count: len(entries)})
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, fmt.Errorf("generation %q: %w", r.PathValue("id"), domain.ErrNotFound))
		return
	}

	gen, err := s.history.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewGeneration(gen))
}

// repoRef builds a validated reference from the owner and repo path values.
// An optional ?ref= query parameter selects a branch, tag or commit.
func repoRef(r *http.Request) (domain.RepoRef, error) {
	ref := domain.RepoRef{
		Owner: r.PathValue("owner"),
		Name:  r.PathValue("repo"),
		Ref:   strings.TrimSpace(r.URL.Query().Get("ref")),
	}
	if ref.Owner == "" || ref.Name == "" {
		return domain.RepoRef{}, fmt.Errorf("%w: both owner and repo parameters are required", domain.ErrInvalidInput)
	}
	if err := ref.Validate(); err != nil {
		return domain.RepoRef{}, err
	}
	return ref, nil
}

// etag returns a strong entity tag for body.
func etag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
}

// etagMatches reports whether an If-None-Match header matches tag.
// Weak comparison is used, as for GET requests.
func etagMatches(header, tag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag {
			return true
		}
	}
	return false
}
