package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	goruntime "runtime"
	"sync"

	"github.com/custodia-labs/readme-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/readme-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/readme-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/readme-agent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/readme-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/readme-agent/internal/connectors/filesystem"
	"github.com/custodia-labs/readme-agent/internal/connectors/github"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
	"github.com/custodia-labs/readme-agent/internal/core/services"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// runtime wires adapters to core services for one process.
type runtime struct {
	dir      string
	config   *file.ConfigStore
	settings *services.SettingsService
	history  *services.HistoryService
	prompts  *file.PromptStore

	mu        sync.Mutex
	snapshots map[domain.CacheBackend]driven.SnapshotStore
	closers   []io.Closer
}

var _ cli.Runtime = (*runtime)(nil)

// newRuntime loads configuration from configDir. An empty configDir uses
// ~/.readme-agent.
func newRuntime(configDir string) (cli.Runtime, error) {
	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	dir := filepath.Dir(config.Path())

	settingsService := services.NewSettingsService(config, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	promptsDir := settings.PromptsDir
	if promptsDir == "" {
		promptsDir = filepath.Join(dir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptsDir, services.DefaultPrompts())
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	logger.Debug("Config directory: %s", dir)
	return &runtime{
		dir:       dir,
		config:    config,
		settings:  settingsService,
		history:   services.NewHistoryService(services.DefaultHistorySize),
		prompts:   prompts,
		snapshots: make(map[domain.CacheBackend]driven.SnapshotStore),
	}, nil
}

// Settings returns the settings service.
func (r *runtime) Settings() driving.SettingsService {
	return r.settings
}

// History returns the process-wide history.
func (r *runtime) History() driving.HistoryService {
	return r.history
}

// Readme builds a README service from settings and opts.
func (r *runtime) Readme(opts cli.Overrides) (driving.ReadmeService, error) {
	settings, err := r.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	maxFiles := settings.GitHub.MaxFiles
	if opts.MaxFiles > 0 {
		maxFiles = opts.MaxFiles
	}

	source, err := r.source(settings.GitHub, maxFiles, opts.Local)
	if err != nil {
		return nil, err
	}

	llmSettings := r.settings.LLMFor(opts.Provider, opts.Model)
	llm, err := ai.CreateLLMService(&llmSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if llm != nil {
		logger.Debug("LLM: %s (%s)", llmSettings.Provider, llm.ModelName())
		r.track(llm)
	} else {
		logger.Debug("No LLM configured")
	}

	backend := settings.Cache.Backend
	if opts.Cache != "" {
		backend = opts.Cache
	}
	store, err := r.snapshotStore(backend, settings.Cache)
	if err != nil {
		return nil, err
	}

	svc := services.NewReadmeService(
		source,
		llm,
		services.NewClassifier(nil, services.ClassifierOptions{Workers: goruntime.NumCPU()}),
		services.NewContextBudgeter(services.DefaultBudgetOptions()),
		services.NewPromptBuilder(r.prompts),
		r.history,
	)
	svc.SetSnapshotStore(store)
	return svc, nil
}

// source returns a local directory source when local is set, and a GitHub
// source otherwise.
func (r *runtime) source(gh domain.GitHubSettings, maxFiles int, local string) (driven.RepositorySource, error) {
	if local != "" {
		src, err := filesystem.NewSource(local, maxFiles)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	client, err := github.NewClient(github.ClientOptions{
		Token:             gh.Token,
		BaseURL:           gh.BaseURL,
		RequestsPerSecond: gh.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}
	if !gh.HasToken() {
		logger.Debug("No GitHub token; requests are anonymous")
	}

	cfg := github.ConfigFromSettings(gh)
	cfg.MaxFiles = maxFiles
	return github.NewSource(client, cfg), nil
}

// snapshotStore opens the store for backend once and reuses it. The none
// backend returns a nil store, which disables caching.
func (r *runtime) snapshotStore(backend domain.CacheBackend, cache domain.CacheSettings) (driven.SnapshotStore, error) {
	if backend == domain.CacheBackendNone {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.snapshots[backend]; ok {
		return store, nil
	}

	var store driven.SnapshotStore
	switch backend {
	case domain.CacheBackendMemory:
		s, err := memory.NewSnapshotStore(cache.Size)
		if err != nil {
			return nil, err
		}
		store = s
	case domain.CacheBackendSQLite:
		dir := cache.Dir
		if dir == "" {
			dir = r.dir
		}
		s, err := sqlite.NewStore(dir, cache.Size)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot cache: %w", err)
		}
		logger.Debug("Snapshot cache: %s", s.Path())
		store = s.SnapshotStore()
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, backend)
	}

	r.snapshots[backend] = store
	return store, nil
}

// PurgeCache empties the configured snapshot cache.
func (r *runtime) PurgeCache(ctx context.Context) error {
	settings, err := r.settings.Get()
	if err != nil {
		return err
	}
	store, err := r.snapshotStore(settings.Cache.Backend, settings.Cache)
	if err != nil || store == nil {
		return err
	}
	return store.Purge(ctx)
}

// WatchPrompts reloads templates when their files change.
func (r *runtime) WatchPrompts(ctx context.Context) error {
	watcher, err := file.NewPromptWatcher(r.prompts)
	if err != nil {
		return err
	}
	logger.Debug("Watching prompts in %s", r.prompts.Dir())
	return watcher.Run(ctx)
}

func (r *runtime) track(c io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, c)
}

// Close closes LLM clients and snapshot stores.
func (r *runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	for _, store := range r.snapshots {
		errs = append(errs, store.Close())
	}
	r.closers = nil
	r.snapshots = make(map[domain.CacheBackend]driven.SnapshotStore)
	return errors.Join(errs...)
}
