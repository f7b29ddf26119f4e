// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// HistoryList displays generations in a navigable list.
type HistoryList struct {
	items    []*domain.Generation
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHistoryList creates a new history list component.
func NewHistoryList(s *styles.Styles) *HistoryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HistoryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *HistoryList) Update(msg tea.Msg) (*HistoryList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *HistoryList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("No READMEs generated in this session")
	}

	lines := make([]string, 0, len(l.items)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Generations (%d)", len(l.items))), "")

	// Each entry takes two lines
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, l.items[i]))
	}

	return strings.Join(lines, "\n")
}

// renderItem formats one generation.
func (l *HistoryList) renderItem(index int, gen *domain.Generation) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := gen.Repo.FullName
	maxName := l.width - 24
	if maxName < 10 {
		maxName = 10
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}
	stamp := gen.CreatedAt.Local().Format("15:04:05")

	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxName, name, stamp))
	} else {
		title = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxName, name)) +
			l.styles.Muted.Render(stamp)
	}

	projectType := domain.ProjectTypeUnknown.Title()
	if gen.Profile != nil {
		projectType = gen.Profile.ProjectType.Title()
	}
	detail := l.styles.Muted.Render(fmt.Sprintf("    %s · %s · %d files · %s",
		projectType, gen.Model, gen.FileCount, gen.Duration.Round(100*time.Millisecond)))

	return title + "\n" + detail
}

// SetItems replaces the list contents and resets the selection.
func (l *HistoryList) SetItems(items []*domain.Generation) {
	l.items = items
	l.selected = 0
}

// Items returns the current generations.
func (l *HistoryList) Items() []*domain.Generation {
	return l.items
}

// Selected returns the index of the selected entry.
func (l *HistoryList) Selected() int {
	return l.selected
}

// SelectedItem returns the selected generation, or nil if none.
func (l *HistoryList) SelectedItem() *domain.Generation {
	if l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return l.items[l.selected]
}

// MoveUp moves selection up.
func (l *HistoryList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *HistoryList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *HistoryList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *HistoryList) Count() int {
	return len(l.items)
}
