package services

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// BudgetOptions bounds the file excerpts included in a generation prompt.
type BudgetOptions struct {
	// PriorityBasenames are selected first, matched exactly on base name.
	PriorityBasenames []string

	// MaxFiles caps the number of selected files.
	MaxFiles int

	// PerFileCharCap is the number of characters kept per file.
	PerFileCharCap int

	// MaxFileSize skips files whose reported size is at or above it.
	MaxFileSize int64

	// SourceExtensions fill remaining slots after priority and main files.
	SourceExtensions []string

	// TruncationMarker is appended to content cut at PerFileCharCap.
	TruncationMarker string

	// TotalCharBudget caps the characters across all entries.
	// Zero means MaxFiles * (PerFileCharCap + len(TruncationMarker)).
	TotalCharBudget int
}

// DefaultBudgetOptions returns the standard context limits.
func DefaultBudgetOptions() BudgetOptions {
	return BudgetOptions{
		PriorityBasenames: []string{"app.py", "main.py", "requirements.txt", "package.json", "setup.py"},
		MaxFiles:          6,
		PerFileCharCap:    2000,
		MaxFileSize:       15000,
		SourceExtensions:  []string{".py", ".js", ".ts"},
		TruncationMarker:  "...",
	}
}

// ContextBudgeter selects and truncates file contents for a prompt.
type ContextBudgeter struct {
	opts BudgetOptions
}

// NewContextBudgeter creates a budgeter. Non-positive limits take
// their default values.
func NewContextBudgeter(opts BudgetOptions) *ContextBudgeter {
	def := DefaultBudgetOptions()
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = def.MaxFiles
	}
	if opts.PerFileCharCap <= 0 {
		opts.PerFileCharCap = def.PerFileCharCap
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = def.MaxFileSize
	}
	if opts.TotalCharBudget <= 0 {
		opts.TotalCharBudget = opts.MaxFiles * (opts.PerFileCharCap + utf8.RuneCountInString(opts.TruncationMarker))
	}
	return &ContextBudgeter{opts: opts}
}

// Options returns the effective limits.
func (b *ContextBudgeter) Options() BudgetOptions {
	return b.opts
}

// Build selects priority files, then profile main files, then source files,
// and emits their truncated contents in that order.
func (b *ContextBudgeter) Build(files []domain.FileRecord, profile *domain.ProjectProfile) *domain.ContextBundle {
	selected := b.selectFiles(files, profile)

	bundle := &domain.ContextBundle{Entries: make([]domain.ContextEntry, 0, len(selected))}
	used := 0
	for _, f := range selected {
		text, ok := f.Text()
		if !ok || f.Size >= b.opts.MaxFileSize {
			logger.Debug("Context skip %s (content=%t size=%d)", f.Path, ok, f.Size)
			continue
		}

		entry := b.truncate(f.Path, text)
		n := utf8.RuneCountInString(entry.Content)
		if used+n > b.opts.TotalCharBudget {
			logger.Debug("Context budget reached at %s", f.Path)
			break
		}
		used += n
		bundle.Entries = append(bundle.Entries, entry)
	}

	logger.Debug("Context bundle: %d entries, %d chars", bundle.Len(), used)
	return bundle
}

func (b *ContextBudgeter) selectFiles(files []domain.FileRecord, profile *domain.ProjectProfile) []domain.FileRecord {
	selected := make([]domain.FileRecord, 0, b.opts.MaxFiles)
	seen := make(map[string]struct{}, b.opts.MaxFiles)

	add := func(f domain.FileRecord) {
		if len(selected) >= b.opts.MaxFiles {
			return
		}
		if _, ok := seen[f.Path]; ok {
			return
		}
		seen[f.Path] = struct{}{}
		selected = append(selected, f)
	}

	priority := toSet(b.opts.PriorityBasenames)
	for _, f := range files {
		if _, ok := priority[f.Base()]; ok && f.IsFile() {
			add(f)
		}
	}

	if profile != nil {
		for _, f := range files {
			if f.IsFile() && profile.IsMainFile(f.Path) {
				add(f)
			}
		}
	}

	for _, f := range files {
		if f.IsFile() && hasAnySuffix(f.Path, b.opts.SourceExtensions) {
			add(f)
		}
	}

	return selected
}

func (b *ContextBudgeter) truncate(p, text string) domain.ContextEntry {
	if utf8.RuneCountInString(text) <= b.opts.PerFileCharCap {
		return domain.ContextEntry{Path: p, Content: text}
	}
	runes := []rune(text)
	return domain.ContextEntry{
		Path:      p,
		Content:   string(runes[:b.opts.PerFileCharCap]) + b.opts.TruncationMarker,
		Truncated: true,
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
