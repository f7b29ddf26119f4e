package history

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	Gens []*domain.Generation
}

func (m *MockHistoryService) Record(gen *domain.Generation) {
	m.Gens = append([]*domain.Generation{gen}, m.Gens...)
}

func (m *MockHistoryService) List() []*domain.Generation { return m.Gens }

func (m *MockHistoryService) Get(id string) (*domain.Generation, error) {
	for _, g := range m.Gens {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryService) Clear() { m.Gens = nil }

func seeded() *MockHistoryService {
	svc := &MockHistoryService{}
	for _, id := range []string{"first", "second", "third"} {
		svc.Record(&domain.Generation{
			ID:        id,
			Repo:      domain.RepoInfo{FullName: "octo/" + id},
			Model:     "llama3.2",
			CreatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		})
	}
	return svc
}

func TestView_RefreshListsNewestFirst(t *testing.T) {
	v := NewView(nil, nil, seeded())
	v.SetDimensions(100, 30)

	v.Refresh()

	require.Equal(t, 3, v.Count())
	assert.Equal(t, "third", v.Selected().ID)
	assert.Contains(t, v.View(), "3 generations")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(100, 30)

	v.Refresh()

	assert.Zero(t, v.Count())
	assert.Contains(t, v.View(), "No READMEs generated")
}

func TestView_EnterSelectsGeneration(t *testing.T) {
	v := NewView(nil, nil, seeded())
	v.SetDimensions(100, 30)
	v.Refresh()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.GenerationSelected)
	require.True(t, ok)
	assert.Equal(t, "second", selected.Generation.ID)
}

func TestView_EnterOnEmptyList(t *testing.T) {
	v := NewView(nil, nil, &MockHistoryService{})
	v.Refresh()

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, nil, nil)

	assert.Equal(t, "Initialising...", v.View())
}
