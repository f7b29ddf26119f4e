// Package dto holds the JSON shapes shared by the HTTP and MCP adapters.
package dto

import (
	"time"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// Analysis is the classification summary of a repository.
type Analysis struct {
	Languages       map[string]int      `json:"languages"`
	Frameworks      []string            `json:"frameworks"`
	ProjectType     string              `json:"project_type"`
	HasTests        bool                `json:"has_tests"`
	HasDocs         bool                `json:"has_docs"`
	FileCount       int                 `json:"file_count"`
	PrimaryLanguage string              `json:"primary_language"`
	Dependencies    map[string][]string `json:"dependencies"`
	MainFiles       []string            `json:"main_files"`
	ConfigFiles     []string            `json:"config_files"`
}

// Preview is the response for a repository preview.
type Preview struct {
	Repository string          `json:"repository"`
	Analysis   Analysis        `json:"analysis"`
	RepoInfo   domain.RepoInfo `json:"repo_info"`
}

// Generation is a produced README.
type Generation struct {
	ID         string   `json:"id"`
	Repository string   `json:"repository"`
	Readme     string   `json:"readme"`
	Model      string   `json:"model"`
	Files      []string `json:"context_files"`
	DurationMS int64    `json:"duration_ms"`
}

// HistoryEntry summarises one generation in a listing.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Repository  string    `json:"repository"`
	ProjectType string    `json:"project_type"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAnalysis converts a profile. A nil profile yields an empty analysis.
func NewAnalysis(p *domain.ProjectProfile) Analysis {
	if p == nil {
		p = domain.NewProjectProfile()
	}
	return Analysis{
		Languages:       p.LanguageCounts,
		Frameworks:      p.Frameworks,
		ProjectType:     p.ProjectType.String(),
		HasTests:        p.HasTests,
		HasDocs:         p.HasDocs,
		FileCount:       p.FileCount,
		PrimaryLanguage: p.PrimaryLanguage,
		Dependencies:    p.Dependencies,
		MainFiles:       p.MainFiles,
		ConfigFiles:     p.ConfigFiles,
	}
}

// NewPreview converts a preview.
func NewPreview(p *domain.Preview) Preview {
	return Preview{
		Repository: p.Repo.FullName,
		Analysis:   NewAnalysis(p.Profile),
		RepoInfo:   p.Repo,
	}
}

// NewGeneration converts a generation.
func NewGeneration(g *domain.Generation) Generation {
	files := g.ContextPaths
	if files == nil {
		files = []string{}
	}
	return Generation{
		ID:         g.ID,
		Repository: g.Repo.FullName,
		Readme:     g.Readme,
		Model:      g.Model,
		Files:      files,
		DurationMS: g.Duration.Milliseconds(),
	}
}

// NewHistory converts generations into listing entries, keeping order.
func NewHistory(gens []*domain.Generation) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(gens))
	for _, g := range gens {
		entry := HistoryEntry{
			ID:         g.ID,
			Repository: g.Repo.FullName,
			Model:      g.Model,
			CreatedAt:  g.CreatedAt,
		}
		if g.Profile != nil {
			entry.ProjectType = g.Profile.ProjectType.String()
		}
		entries = append(entries, entry)
	}
	return entries
}
