// Package generate provides the repository analysis and README view.
package generate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// ErrNoReadmeService is returned when the view has no service to call.
var ErrNoReadmeService = errors.New("readme service not available")

// progressBuffer bounds queued progress events per run.
const progressBuffer = 16

// operation is the kind of work a run performs.
type operation int

const (
	opPreview operation = iota
	opGenerate
)

// View is the generate view: repository input, profile panel and README.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.RepoInput
	spinner   spinner.Model
	viewport  viewport.Model
	statusbar *status.Bar

	readme driving.ReadmeService
	ctx    context.Context

	busy       bool
	preview    *domain.Preview
	generation *domain.Generation
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new generate view.
func NewView(s *styles.Styles, km *keymap.KeyMap, readme driving.ReadmeService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewRepoInput(s),
		spinner:   sp,
		viewport:  viewport.New(80, 10),
		statusbar: status.NewBar(s),
		readme:    readme,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.updateHints()
	return v
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the generate view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case progressMsg:
		if v.busy && !msg.event.Stage.IsTerminal() {
			v.statusbar.SetState(status.StateWorking, msg.event.Message)
		}
		return v, listen(msg.ch)

	case messages.PreviewCompleted:
		v.busy = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.preview = msg.Preview
		v.generation = nil
		v.viewport.SetContent("")
		v.statusbar.SetState(status.StateDone, "Analysis complete for "+msg.Ref.FullName())
		return v, nil

	case messages.GenerationCompleted:
		v.busy = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.ShowGeneration(msg.Generation)
		v.statusbar.SetState(status.StateDone,
			fmt.Sprintf("README generated for %s in %s", msg.Ref.FullName(), msg.Generation.Duration.Round(10*time.Millisecond)))
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	if v.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			return v, v.start(opGenerate)
		case tea.KeyEsc:
			v.input.Blur()
			v.updateHints()
			return v, nil
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Preview):
		return v, v.start(opPreview)
	case keymap.Matches(key, v.keymap.Generate):
		return v, v.start(opGenerate)
	case keymap.Matches(key, v.keymap.Edit):
		cmd := v.input.Focus()
		v.updateHints()
		return v, cmd
	}

	// Remaining keys scroll the README
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// start validates the input and launches a preview or generation.
func (v *View) start(op operation) tea.Cmd {
	ref, err := v.input.Ref()
	if err != nil {
		v.setError(err)
		return nil
	}
	if v.readme == nil {
		v.setError(ErrNoReadmeService)
		return nil
	}

	v.busy = true
	v.err = nil
	v.input.Blur()
	v.updateHints()
	v.statusbar.SetState(status.StateWorking, "Resolving "+ref.String())

	ch := make(chan tea.Msg, progressBuffer)
	return tea.Batch(v.spinner.Tick, v.run(op, ref, ch), listen(ch))
}

// progressMsg wraps a progress event with the channel it arrived on.
type progressMsg struct {
	event domain.ProgressEvent
	ch    <-chan tea.Msg
}

// run returns a command that performs op and reports progress on ch.
// The channel is closed when the operation returns.
func (v *View) run(op operation, ref domain.RepoRef, ch chan tea.Msg) tea.Cmd {
	svc, ctx := v.readme, v.ctx
	return func() tea.Msg {
		defer close(ch)
		progress := func(ev domain.ProgressEvent) {
			ch <- progressMsg{event: ev, ch: ch}
		}

		if op == opPreview {
			preview, err := svc.Preview(ctx, ref, progress)
			return messages.PreviewCompleted{Ref: ref, Preview: preview, Err: err}
		}
		gen, err := svc.Generate(ctx, ref, progress)
		return messages.GenerationCompleted{Ref: ref, Generation: gen, Err: err}
	}
}

// listen waits for the next progress event on ch.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError, err.Error())
	v.updateHints()
}

func (v *View) updateHints() {
	if v.input.Focused() {
		v.statusbar.SetHints(v.keymap.InputHelp())
		return
	}
	v.statusbar.SetHints(v.keymap.GenerateHelp())
}

// ShowGeneration displays a generated README and its profile.
func (v *View) ShowGeneration(gen *domain.Generation) {
	if gen == nil {
		return
	}
	v.generation = gen
	v.preview = &domain.Preview{Repo: gen.Repo, Profile: gen.Profile}
	v.err = nil
	v.input.SetValue(gen.Repo.FullName)
	v.input.Blur()
	v.updateHints()
	v.viewport.SetContent(gen.Readme)
	v.viewport.GotoTop()
}

// View renders the generate view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.input.View(), "")

	if v.busy {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render(v.statusbar.Message()), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.preview != nil {
		sections = append(sections, v.renderProfile(), "")
	}

	if v.generation != nil {
		sections = append(sections, v.styles.Subtitle.Render("README.md"), v.viewport.View(), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderProfile renders the classification summary panel.
func (v *View) renderProfile() string {
	repo := v.preview.Repo
	p := v.preview.Profile
	if p == nil {
		p = domain.NewProjectProfile()
	}

	row := func(label, value string) string {
		return v.styles.Label.Render(label) + v.styles.Normal.Render(value)
	}
	orNone := func(items []string) string {
		if len(items) == 0 {
			return "none"
		}
		return strings.Join(items, ", ")
	}

	lines := []string{
		v.styles.Subtitle.Render(repo.FullName),
	}
	if repo.Description != "" {
		lines = append(lines, v.styles.Muted.Render(repo.Description))
	}
	lines = append(lines,
		row("Project type", p.ProjectType.Title()),
		row("Primary language", valueOr(p.PrimaryLanguage, "unknown")),
		row("Languages", orNone(languageSummary(p.LanguageCounts))),
		row("Frameworks", orNone(p.Frameworks)),
		row("Dependencies", orNone(dependencySummary(p.Dependencies))),
		row("Main files", orNone(p.MainFiles)),
		row("Tests / docs", fmt.Sprintf("%s / %s", yesNo(p.HasTests), yesNo(p.HasDocs))),
		row("Files analysed", fmt.Sprintf("%d", p.FileCount)),
	)
	if repo.Stars > 0 || repo.Forks > 0 {
		lines = append(lines, row("Stars / forks", fmt.Sprintf("%d / %d", repo.Stars, repo.Forks)))
	}

	width := v.width - 4
	if width < 40 {
		width = 40
	}
	return v.styles.Panel.Width(width).Render(strings.Join(lines, "\n"))
}

// languageSummary lists languages by descending file count.
func languageSummary(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%s (%d)", name, counts[name])
	}
	return out
}

// dependencySummary lists ecosystems with their package counts.
func dependencySummary(deps map[string][]string) []string {
	ecosystems := make([]string, 0, len(deps))
	for eco := range deps {
		ecosystems = append(ecosystems, eco)
	}
	sort.Strings(ecosystems)

	out := make([]string, len(ecosystems))
	for i, eco := range ecosystems {
		out[i] = fmt.Sprintf("%s: %d", eco, len(deps[eco]))
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Reserve space for the input, profile panel and status bar
	vpHeight := height - 22
	if vpHeight < 5 {
		vpHeight = 5
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
}

// Busy reports whether a preview or generation is running.
func (v *View) Busy() bool {
	return v.busy
}

// Typing reports whether keystrokes go to the repository input.
func (v *View) Typing() bool {
	return v.input.Focused() && !v.busy
}

// Preview returns the displayed analysis, if any.
func (v *View) Preview() *domain.Preview {
	return v.preview
}

// Generation returns the displayed generation, if any.
func (v *View) Generation() *domain.Generation {
	return v.generation
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// SetRepository sets the repository input value.
func (v *View) SetRepository(value string) {
	v.input.SetValue(value)
}
