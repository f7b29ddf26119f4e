package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// Ensure ReadmeService implements the interface.
var _ driving.ReadmeService = (*ReadmeService)(nil)

// LLM call settings for README generation.
const (
	readmeMaxTokens   = 2500
	readmeTemperature = 0.7
)

// ReadmeService runs fetch, classification, budgeting and generation.
type ReadmeService struct {
	source     driven.RepositorySource
	llm        driven.LLMService
	snapshots  driven.SnapshotStore
	classifier *Classifier
	budgeter   *ContextBudgeter
	prompts    *PromptBuilder
	history    driving.HistoryService
	now        func() time.Time
}

// NewReadmeService creates a README service.
// The llm and history parameters are optional (can be nil). Nil classifier,
// budgeter and prompts use their defaults.
func NewReadmeService(
	source driven.RepositorySource,
	llm driven.LLMService,
	classifier *Classifier,
	budgeter *ContextBudgeter,
	prompts *PromptBuilder,
	history driving.HistoryService,
) *ReadmeService {
	if classifier == nil {
		classifier = NewClassifier(nil, ClassifierOptions{})
	}
	if budgeter == nil {
		budgeter = NewContextBudgeter(DefaultBudgetOptions())
	}
	if prompts == nil {
		prompts = NewPromptBuilder(nil)
	}
	return &ReadmeService{
		source:     source,
		llm:        llm,
		classifier: classifier,
		budgeter:   budgeter,
		prompts:    prompts,
		history:    history,
		now:        time.Now,
	}
}

// SetSnapshotStore enables snapshot caching. Nil disables it.
func (s *ReadmeService) SetSnapshotStore(store driven.SnapshotStore) {
	s.snapshots = store
}

// LLMAvailable reports whether an LLM is configured.
func (s *ReadmeService) LLMAvailable() bool {
	return s.llm != nil
}

// Analyze classifies already fetched records.
func (s *ReadmeService) Analyze(files []domain.FileRecord) *domain.ProjectProfile {
	return s.classifier.Classify(files)
}

// Preview fetches and classifies a repository.
func (s *ReadmeService) Preview(
	ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Preview, error) {
	logger.Section("Preview " + ref.String())

	snap, err := s.fetch(ctx, ref, progress)
	if err != nil {
		progress.Emit(domain.StageFailed, err.Error())
		return nil, err
	}

	progress.Emit(domain.StageClassifying, "Analyzing project structure")
	profile := s.classifier.Classify(snap.Files)

	progress.Emit(domain.StageDone, "Analysis complete")
	return &domain.Preview{Repo: snap.Repo, Profile: profile}, nil
}

// Generate produces a README for a repository and records it in history.
func (s *ReadmeService) Generate(
	ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Generation, error) {
	logger.Section("Generate " + ref.String())
	start := s.now()

	gen, err := s.generate(ctx, ref, progress)
	if err != nil {
		progress.Emit(domain.StageFailed, err.Error())
		return nil, err
	}

	gen.Duration = s.now().Sub(start)
	gen.CreatedAt = s.now()
	if s.history != nil {
		s.history.Record(gen)
	}

	logger.Info("Generated README for %s in %s (%d chars)", ref, gen.Duration, len(gen.Readme))
	progress.Emit(domain.StageDone, "README generated")
	return gen, nil
}

func (s *ReadmeService) generate(
	ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Generation, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("generate %s: %w", ref, domain.ErrLLMUnavailable)
	}

	snap, err := s.fetch(ctx, ref, progress)
	if err != nil {
		return nil, err
	}
	if snap.FileCount() == 0 {
		return nil, fmt.Errorf("generate %s: %w", ref, domain.ErrEmptyRepository)
	}

	progress.Emit(domain.StageClassifying, "Analyzing project structure")
	profile := s.classifier.Classify(snap.Files)

	progress.Emit(domain.StageBudgeting, "Selecting key files")
	bundle := s.budgeter.Build(snap.Files, profile)

	system, user, err := s.prompts.Build(&snap.Repo, profile, bundle)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	progress.Emit(domain.StageGenerating, "Generating README with "+s.llm.ModelName())
	done := logger.Stage("llm")
	readme, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: user},
	}, driven.ChatOptions{
		MaxTokens:   readmeMaxTokens,
		Temperature: readmeTemperature,
	})
	done()
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", ref, err)
	}

	readme = strings.TrimSpace(readme)
	if readme == "" {
		return nil, fmt.Errorf("generate %s: model returned an empty README", ref)
	}

	return &domain.Generation{
		ID:             uuid.NewString(),
		Repo:           snap.Repo,
		Readme:         readme,
		Profile:        profile,
		ContextPaths:   bundle.Paths(),
		ExistingReadme: existingReadme(snap.Files),
		Model:          s.llm.ModelName(),
		FileCount:      snap.FileCount(),
	}, nil
}

// existingReadme returns the text of the root README.md, if fetched.
func existingReadme(files []domain.FileRecord) string {
	for _, f := range files {
		if !f.IsFile() || !strings.EqualFold(f.Path, "README.md") {
			continue
		}
		if text, ok := f.Text(); ok {
			return text
		}
	}
	return ""
}

// fetch resolves ref and returns its snapshot, from cache when possible.
func (s *ReadmeService) fetch(
	ctx context.Context, ref domain.RepoRef, progress domain.ProgressFunc,
) (*domain.Snapshot, error) {
	if s.source == nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, domain.ErrSourceUnavailable)
	}

	progress.Emit(domain.StageResolving, "Resolving "+ref.String())
	info, err := s.source.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}

	key := info.CacheKey()
	if cached, ok := s.cached(ctx, key); ok {
		progress.Emit(domain.StageFetching, fmt.Sprintf("Using cached snapshot (%d files)", cached.FileCount()))
		snap := *cached
		snap.Repo = *info
		return &snap, nil
	}

	progress.Emit(domain.StageFetching, "Fetching repository files")
	done := logger.Stage("fetch")
	files, err := s.source.Fetch(ctx, info)
	done()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}

	snap := &domain.Snapshot{Repo: *info, Files: files, FetchedAt: s.now()}
	logger.Debug("Fetched %d records (%d files)", len(files), snap.FileCount())

	if s.snapshots != nil && key != "" {
		if err := s.snapshots.Put(ctx, key, snap); err != nil {
			logger.Warn("Snapshot cache write failed: %v", err)
		}
	}
	return snap, nil
}

func (s *ReadmeService) cached(ctx context.Context, key string) (*domain.Snapshot, bool) {
	if s.snapshots == nil || key == "" {
		return nil, false
	}
	snap, ok, err := s.snapshots.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Snapshot cache read failed: %v", err)
		}
		return nil, false
	}
	if ok {
		logger.Debug("Snapshot cache hit: %s", key)
	}
	return snap, ok
}
