package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// mockReadmeService implements driving.ReadmeService for testing.
type mockReadmeService struct {
	preview   *domain.Preview
	gen       *domain.Generation
	err       error
	lastRef   domain.RepoRef
	available bool
}

var _ driving.ReadmeService = (*mockReadmeService)(nil)

func (m *mockReadmeService) Preview(_ context.Context, ref domain.RepoRef, _ domain.ProgressFunc) (*domain.Preview, error) {
	m.lastRef = ref
	if m.err != nil {
		return nil, m.err
	}
	return m.preview, nil
}

func (m *mockReadmeService) Generate(_ context.Context, ref domain.RepoRef, _ domain.ProgressFunc) (*domain.Generation, error) {
	m.lastRef = ref
	if m.err != nil {
		return nil, m.err
	}
	return m.gen, nil
}

func (m *mockReadmeService) Analyze(_ []domain.FileRecord) *domain.ProjectProfile {
	return domain.NewProjectProfile()
}

func (m *mockReadmeService) LLMAvailable() bool {
	return m.available
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	gens []*domain.Generation
}

var _ driving.HistoryService = (*mockHistoryService)(nil)

func (m *mockHistoryService) Record(gen *domain.Generation) {
	m.gens = append([]*domain.Generation{gen}, m.gens...)
}

func (m *mockHistoryService) List() []*domain.Generation {
	return m.gens
}

func (m *mockHistoryService) Get(id string) (*domain.Generation, error) {
	for _, g := range m.gens {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear() {
	m.gens = nil
}

func testRepo() domain.RepoInfo {
	return domain.RepoInfo{
		Owner:         "octo",
		Name:          "demo",
		FullName:      "octo/demo",
		Language:      "Python",
		DefaultBranch: "main",
		Revision:      "abc123",
	}
}

func testProfile() *domain.ProjectProfile {
	p := domain.NewProjectProfile()
	p.LanguageCounts = map[string]int{"python": 3}
	p.Frameworks = []string{"flask"}
	p.ProjectType = domain.ProjectTypeWeb
	p.PrimaryLanguage = "python"
	p.FileCount = 5
	return p
}

func testGeneration(id string, created time.Time) *domain.Generation {
	return &domain.Generation{
		ID:           id,
		Repo:         testRepo(),
		Readme:       "# demo\n",
		Profile:      testProfile(),
		ContextPaths: []string{"README.md", "app.py"},
		Model:        "llama3.2",
		FileCount:    5,
		Duration:     1500 * time.Millisecond,
		CreatedAt:    created,
	}
}
