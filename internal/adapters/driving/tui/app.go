package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/views/generate"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/views/history"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	generateView *generate.View
	historyView  *history.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		generateView: generate.NewView(s, km, ports.Readme),
		historyView:  history.NewView(s, km, ports.History),
		currentView:  messages.ViewGenerate,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.generateView.WithContext(ctx)
	return a
}

// WithRepository pre-fills the repository input.
func (a *App) WithRepository(repo string) *App {
	a.generateView.SetRepository(repo)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("readme-agent"),
		a.generateView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.GenerationCompleted:
		a.generateView, cmd = a.generateView.Update(msg)
		a.err = msg.Err
		a.historyView.Refresh()
		return a, cmd

	case messages.PreviewCompleted:
		a.generateView, cmd = a.generateView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.GenerationSelected:
		a.generateView.ShowGeneration(msg.Generation)
		a.currentView = messages.ViewGenerate
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.generateView, cmd = a.generateView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Spinner ticks and progress belong to the generate view even while the
	// history view is shown.
	a.generateView, cmd = a.generateView.Update(msg)
	return a, cmd
}

// handleKeyMsg routes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	// Global quit with ctrl+c
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if keymap.Matches(key, a.keymap.SwitchView) {
		a.switchTo(a.currentView.Next())
		return a, nil
	}

	switch a.currentView {
	case messages.ViewGenerate:
		if key == "q" && !a.generateView.Typing() {
			return a, tea.Quit
		}
		a.generateView, cmd = a.generateView.Update(msg)
		return a, cmd

	case messages.ViewHistory:
		if keymap.Matches(key, a.keymap.Quit) {
			return a, tea.Quit
		}
		if keymap.Matches(key, a.keymap.Back) {
			a.switchTo(messages.ViewGenerate)
			return a, nil
		}
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) switchTo(view messages.ViewType) {
	a.currentView = view
	if view == messages.ViewHistory {
		a.historyView.Refresh()
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewHistory:
		body = a.historyView.View()
	default:
		body = a.generateView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), "", body)
}

// renderTabs renders the title and view tabs.
func (a *App) renderTabs() string {
	tabs := []string{a.styles.Title.Render("readme-agent") + "  "}
	for _, view := range []messages.ViewType{messages.ViewGenerate, messages.ViewHistory} {
		label := strings.ToUpper(view.String()[:1]) + view.String()[1:]
		if view == a.currentView {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Two lines for the tab header
	a.generateView.SetDimensions(width, height-2)
	a.historyView.SetDimensions(width, height-2)
}
