// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// SwitchView toggles between the generate and history views.
	SwitchView key.Binding

	// Generate asks the LLM for a README.
	Generate key.Binding

	// Preview analyses the repository without calling the LLM.
	Preview key.Binding

	// Edit focuses the repository input.
	Edit key.Binding

	// Back leaves the input or returns to the previous view.
	Back key.Binding

	// Up navigates up in a list or scrolls the README.
	Up key.Binding

	// Down navigates down in a list or scrolls the README.
	Down key.Binding

	// Select opens the highlighted entry.
	Select key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Generate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Edit: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "edit repository"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
	}
}

// InputHelp returns keybindings shown while typing a repository.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Back, k.SwitchView}
}

// GenerateHelp returns keybindings for the generate view.
func (k *KeyMap) GenerateHelp() []key.Binding {
	return []key.Binding{k.Preview, k.Generate, k.Edit, k.SwitchView, k.Quit}
}

// HistoryHelp returns keybindings for the history view.
func (k *KeyMap) HistoryHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.SwitchView, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Preview, k.Generate, k.Edit},
		{k.Up, k.Down, k.Select},
		{k.SwitchView, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
