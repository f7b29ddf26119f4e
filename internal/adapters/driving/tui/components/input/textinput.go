// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// RepoInput wraps a bubbles textinput for entering a repository reference.
type RepoInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewRepoInput creates a new repository input component.
func NewRepoInput(s *styles.Styles) *RepoInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "owner/repo or https://github.com/owner/repo"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &RepoInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the input.
func (r *RepoInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (r *RepoInput) Update(msg tea.Msg) (*RepoInput, tea.Cmd) {
	var cmd tea.Cmd
	r.textinput, cmd = r.textinput.Update(msg)
	return r, cmd
}

// View renders the input.
func (r *RepoInput) View() string {
	label := r.styles.Title.Render("Repository: ")
	field := r.styles.InputField.Render(r.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (r *RepoInput) Value() string {
	return r.textinput.Value()
}

// Ref parses the input as a repository reference.
func (r *RepoInput) Ref() (domain.RepoRef, error) {
	return domain.ParseRepoRef(strings.TrimSpace(r.textinput.Value()))
}

// SetValue sets the input value.
func (r *RepoInput) SetValue(value string) {
	r.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (r *RepoInput) Focus() tea.Cmd {
	return r.textinput.Focus()
}

// Blur removes focus from the input.
func (r *RepoInput) Blur() {
	r.textinput.Blur()
}

// Focused returns whether the input is focused.
func (r *RepoInput) Focused() bool {
	return r.textinput.Focused()
}

// SetWidth sets the width of the input.
func (r *RepoInput) SetWidth(width int) {
	r.width = width
	// Account for label and padding
	inputWidth := width - 18
	if inputWidth < 20 {
		inputWidth = 20
	}
	r.textinput.Width = inputWidth
}

// Width returns the current width.
func (r *RepoInput) Width() int {
	return r.width
}

// Reset clears the input.
func (r *RepoInput) Reset() {
	r.textinput.Reset()
}
