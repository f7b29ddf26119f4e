package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

func TestNewRepoInput(t *testing.T) {
	in := NewRepoInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.Equal(t, 50, in.Width())
}

func TestRepoInput_Typing(t *testing.T) {
	in := NewRepoInput(nil)

	for _, r := range "octo/demo" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "octo/demo", in.Value())
}

func TestRepoInput_Ref(t *testing.T) {
	tests := []struct {
		value   string
		want    domain.RepoRef
		wantErr bool
	}{
		{"octo/demo", domain.RepoRef{Owner: "octo", Name: "demo"}, false},
		{"  https://github.com/octo/demo@dev ", domain.RepoRef{Owner: "octo", Name: "demo", Ref: "dev"}, false},
		{"demo", domain.RepoRef{}, true},
		{"", domain.RepoRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			in := NewRepoInput(nil)
			in.SetValue(tt.value)

			got, err := in.Ref()

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoInput_FocusBlur(t *testing.T) {
	in := NewRepoInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestRepoInput_SetWidth(t *testing.T) {
	in := NewRepoInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 82, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestRepoInput_ResetAndView(t *testing.T) {
	in := NewRepoInput(nil)
	in.SetValue("octo/demo")

	assert.Contains(t, in.View(), "Repository:")

	in.Reset()
	assert.Empty(t, in.Value())
}
