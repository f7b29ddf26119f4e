// Package history provides the session history view for the TUI.
package history

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// View lists the generations of the current session.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.HistoryList
	statusbar *status.Bar
	history   driving.HistoryService

	width  int
	height int
	ready  bool
}

// NewView creates a new history view. history may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s)
	bar.SetHints(km.HistoryHelp())

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewHistoryList(s),
		statusbar: bar,
		history:   history,
		width:     80,
		height:    24,
	}
}

// Refresh reloads generations from the history service, newest first.
func (v *View) Refresh() {
	var items []*domain.Generation
	if v.history != nil {
		items = v.history.List()
	}
	v.list.SetItems(items)

	switch len(items) {
	case 0:
		v.statusbar.SetState(status.StateReady, "")
	case 1:
		v.statusbar.SetState(status.StateReady, "1 generation")
	default:
		v.statusbar.SetState(status.StateReady, fmt.Sprintf("%d generations", len(items)))
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), v.keymap.Select) {
			gen := v.list.SelectedItem()
			if gen == nil {
				return v, nil
			}
			return v, func() tea.Msg {
				return messages.GenerationSelected{Generation: gen}
			}
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}

	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), "", v.statusbar.View())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// Count returns the number of listed generations.
func (v *View) Count() int {
	return v.list.Count()
}

// Selected returns the highlighted generation, or nil.
func (v *View) Selected() *domain.Generation {
	return v.list.SelectedItem()
}
