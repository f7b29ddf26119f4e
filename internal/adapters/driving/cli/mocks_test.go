package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// mockReadmeService implements driving.ReadmeService for testing.
type mockReadmeService struct {
	mu      sync.Mutex
	preview *domain.Preview
	gen     *domain.Generation
	err     error
	noLLM   bool
	refs    []domain.RepoRef
	events  []domain.ProgressEvent
}

func (m *mockReadmeService) Preview(
	_ context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Preview, error) {
	m.mu.Lock()
	m.refs = append(m.refs, ref)
	m.mu.Unlock()
	for _, ev := range m.events {
		progress(ev)
	}
	if m.err != nil {
		progress.Emit(domain.StageFailed, m.err.Error())
		return nil, m.err
	}
	progress.Emit(domain.StageDone, "Analysis complete")
	return m.preview, nil
}

func (m *mockReadmeService) Generate(
	_ context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Generation, error) {
	m.mu.Lock()
	m.refs = append(m.refs, ref)
	m.mu.Unlock()
	for _, ev := range m.events {
		progress(ev)
	}
	if m.err != nil {
		progress.Emit(domain.StageFailed, m.err.Error())
		return nil, m.err
	}
	progress.Emit(domain.StageDone, "README generated")
	return m.gen, nil
}

func (m *mockReadmeService) Analyze(_ []domain.FileRecord) *domain.ProjectProfile {
	return domain.NewProjectProfile()
}

func (m *mockReadmeService) LLMAvailable() bool { return !m.noLLM }

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	saveErr     error
	provider    domain.AIProvider
	model       string
	apiKey      string
	token       string
	tokenSet    bool
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetGitHubToken(token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	m.tokenSet = true
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct{}

func (m *mockHistoryService) Record(_ *domain.Generation) {}

func (m *mockHistoryService) List() []*domain.Generation { return nil }

func (m *mockHistoryService) Get(_ string) (*domain.Generation, error) {
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear() {}

// fakeRuntime implements Runtime for testing.
type fakeRuntime struct {
	readme   *mockReadmeService
	settings *mockSettingsService
	history  *mockHistoryService

	readmeErr error
	purgeErr  error
	overrides []Overrides
	purged    int
	watched   int
	closed    int
}

func (r *fakeRuntime) Settings() driving.SettingsService { return r.settings }

func (r *fakeRuntime) History() driving.HistoryService { return r.history }

func (r *fakeRuntime) Readme(opts Overrides) (driving.ReadmeService, error) {
	r.overrides = append(r.overrides, opts)
	if r.readmeErr != nil {
		return nil, r.readmeErr
	}
	return r.readme, nil
}

func (r *fakeRuntime) PurgeCache(_ context.Context) error {
	r.purged++
	return r.purgeErr
}

func (r *fakeRuntime) WatchPrompts(ctx context.Context) error {
	r.watched++
	<-ctx.Done()
	return nil
}

func (r *fakeRuntime) Close() error {
	r.closed++
	return nil
}

func testProfile() *domain.ProjectProfile {
	p := domain.NewProjectProfile()
	p.LanguageCounts = map[string]int{"python": 3, "javascript": 1}
	p.Frameworks = []string{"streamlit"}
	p.Dependencies = map[string][]string{"python": {"streamlit", "numpy"}}
	p.ProjectType = domain.ProjectTypeGUI
	p.PrimaryLanguage = "python"
	p.HasTests = true
	p.FileCount = 4
	return p
}

func testRepoInfo() domain.RepoInfo {
	return domain.RepoInfo{Owner: "octo", Name: "demo", FullName: "octo/demo", Description: "A demo app"}
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		readme: &mockReadmeService{
			preview: &domain.Preview{Repo: testRepoInfo(), Profile: testProfile()},
			gen: &domain.Generation{
				ID:             "gen-1",
				Repo:           testRepoInfo(),
				Readme:         "# Demo\n\nNew intro.\n",
				ExistingReadme: "# Demo\n\nOld intro.\n",
				Profile:        testProfile(),
				Model:          "mock-model",
				FileCount:      4,
				Duration:       1200 * time.Millisecond,
			},
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
		history:  &mockHistoryService{},
	}
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command against rt with the given stdin.
func execute(t *testing.T, rt *fakeRuntime, stdin string, args ...string) (string, string, error) {
	t.Helper()

	SetRuntimeFactory(func(string) (Runtime, error) { return rt, nil })
	t.Cleanup(func() {
		SetRuntimeFactory(nil)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		// Mirror Execute, which closes the runtime when a command fails.
		require.NoError(t, closeRuntime())
	}
	return stdout.String(), stderr.String(), err
}
