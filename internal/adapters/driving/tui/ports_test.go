package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// MockReadmeService implements driving.ReadmeService for testing.
type MockReadmeService struct {
	Gen *domain.Generation
	Err error
}

func (m *MockReadmeService) Preview(
	_ context.Context, ref domain.RepoRef, _ domain.ProgressFunc,
) (*domain.Preview, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Preview{Repo: domain.RepoInfo{Owner: ref.Owner, Name: ref.Name}, Profile: domain.NewProjectProfile()}, nil
}

func (m *MockReadmeService) Generate(
	_ context.Context, _ domain.RepoRef, _ domain.ProgressFunc,
) (*domain.Generation, error) {
	return m.Gen, m.Err
}

func (m *MockReadmeService) Analyze(_ []domain.FileRecord) *domain.ProjectProfile {
	return domain.NewProjectProfile()
}

func (m *MockReadmeService) LLMAvailable() bool { return true }

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	mu    sync.Mutex
	items []*domain.Generation
	lists int
}

func (m *MockHistoryService) Record(gen *domain.Generation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]*domain.Generation{gen}, m.items...)
}

func (m *MockHistoryService) List() []*domain.Generation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return append([]*domain.Generation(nil), m.items...)
}

func (m *MockHistoryService) Get(id string) (*domain.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, gen := range m.items {
		if gen.ID == id {
			return gen, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

func (m *MockHistoryService) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

var (
	_ driving.ReadmeService  = (*MockReadmeService)(nil)
	_ driving.HistoryService = (*MockHistoryService)(nil)
)

func TestNewPorts(t *testing.T) {
	readme := &MockReadmeService{}
	history := &MockHistoryService{}

	ports := NewPorts(readme, history)

	assert.Equal(t, readme, ports.Readme)
	assert.Equal(t, history, ports.History)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"all ports", &Ports{Readme: &MockReadmeService{}, History: &MockHistoryService{}}, nil},
		{"history optional", &Ports{Readme: &MockReadmeService{}}, nil},
		{"missing readme", &Ports{History: &MockHistoryService{}}, ErrMissingReadmeService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
