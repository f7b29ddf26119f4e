package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// mockReadmeService implements driving.ReadmeService for testing.
type mockReadmeService struct {
	mu        sync.Mutex
	preview   *domain.Preview
	gen       *domain.Generation
	err       error
	events    []domain.ProgressEvent
	available bool
	calls     int
	lastRef   domain.RepoRef
}

func (m *mockReadmeService) Preview(_ context.Context, ref domain.RepoRef, _ domain.ProgressFunc) (*domain.Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastRef = ref
	if m.err != nil {
		return nil, m.err
	}
	return m.preview, nil
}

func (m *mockReadmeService) Generate(
	_ context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Generation, error) {
	m.mu.Lock()
	m.calls++
	m.lastRef = ref
	events, gen, err := m.events, m.gen, m.err
	m.mu.Unlock()

	for _, ev := range events {
		if progress != nil {
			progress(ev)
		}
	}
	if err != nil {
		progress.Emit(domain.StageFailed, err.Error())
		return nil, err
	}
	progress.Emit(domain.StageDone, "README generated")
	return gen, nil
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

func testPreview() *domain.Preview {
	p := domain.NewProjectProfile()
	p.LanguageCounts = map[string]int{"python": 2}
	p.Frameworks = []string{"streamlit"}
	p.ProjectType = domain.ProjectTypeWeb
	p.PrimaryLanguage = "python"
	p.FileCount = 3
	p.Dependencies = map[string][]string{"python": {"streamlit", "pandas"}}
	return &domain.Preview{
		Repo: domain.RepoInfo{
			Owner:    "octo",
			Name:     "demo",
			FullName: "octo/demo",
			Language: "Python",
			Stars:    42,
			Revision: "abc123",
		},
		Profile: p,
	}
}

func testGeneration(id string) *domain.Generation {
	preview := testPreview()
	return &domain.Generation{
		ID:           id,
		Repo:         preview.Repo,
		Readme:       "# demo\n\nA Streamlit app.\n",
		Profile:      preview.Profile,
		ContextPaths: []string{"README.md", "app.py"},
		Model:        "gpt-4o-mini",
		FileCount:    3,
		Duration:     2 * time.Second,
		CreatedAt:    time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}
