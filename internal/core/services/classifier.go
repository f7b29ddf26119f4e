package services

import (
	"sync"

	"github.com/custodia-labs/readme-agent/internal/core/catalog"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// ClassifierOptions configures a Classifier.
type ClassifierOptions struct {
	// Workers bounds concurrent content detection. Values below 2 run
	// detection sequentially.
	Workers int
}

// Classifier derives a ProjectProfile from fetched file records.
// It holds no per-call state and is safe for concurrent use.
type Classifier struct {
	catalog *catalog.Catalog
	workers int
}

// NewClassifier creates a classifier over cat. A nil cat uses catalog.Default.
func NewClassifier(cat *catalog.Catalog, opts ClassifierOptions) *Classifier {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Classifier{catalog: cat, workers: opts.Workers}
}

// Catalog returns the recognition tables in use.
func (c *Classifier) Catalog() *catalog.Catalog {
	return c.catalog
}

// Classify builds the profile for files. Directory records are ignored.
// The result depends only on the input order and the catalog.
func (c *Classifier) Classify(files []domain.FileRecord) *domain.ProjectProfile {
	profile := domain.NewProjectProfile()
	var firstSeen []string

	for _, f := range files {
		if !f.IsFile() {
			continue
		}
		profile.FileCount++

		if lang, ok := c.catalog.Language(f.Ext()); ok {
			if _, seen := profile.LanguageCounts[lang]; !seen {
				firstSeen = append(firstSeen, lang)
			}
			profile.LanguageCounts[lang]++
		}

		if c.catalog.IsImportant(f.Path) {
			profile.MainFiles = append(profile.MainFiles, f.Path)
		}
		if c.catalog.IsConfig(f.Path) {
			profile.ConfigFiles = append(profile.ConfigFiles, f.Path)
		}
		if c.catalog.IsTestPath(f.Path) {
			profile.HasTests = true
		}
		if c.catalog.IsDocPath(f.Path) {
			profile.HasDocs = true
		}
	}

	profile.Frameworks = c.detectFrameworks(files)
	profile.Dependencies = extractDependencies(files)
	profile.PrimaryLanguage = primaryLanguage(profile.LanguageCounts, firstSeen)
	profile.ProjectType = c.catalog.ArchetypeFor(profile.Frameworks, profile.PrimaryLanguage)

	logger.Debug("Classified %d files: primary=%q type=%s frameworks=%v",
		profile.FileCount, profile.PrimaryLanguage, profile.ProjectType, profile.Frameworks)

	return profile
}

// detectFrameworks returns detected technology names in catalog order.
func (c *Classifier) detectFrameworks(files []domain.FileRecord) []string {
	matches := make([][]string, len(files))

	match := func(i int) {
		f := files[i]
		if !f.IsFile() {
			return
		}
		if text, ok := f.Text(); ok {
			matches[i] = c.catalog.Match(text)
		}
	}

	if c.workers > 1 && len(files) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, c.workers)
		for i := range files {
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				match(i)
			}()
		}
		wg.Wait()
	} else {
		for i := range files {
			match(i)
		}
	}

	detected := make(map[string]struct{})
	for _, names := range matches {
		for _, name := range names {
			detected[name] = struct{}{}
		}
	}

	frameworks := make([]string, 0, len(detected))
	for _, tech := range c.catalog.Technologies() {
		if _, ok := detected[tech.Name]; ok {
			frameworks = append(frameworks, tech.Name)
		}
	}
	return frameworks
}

// primaryLanguage returns the language with the highest count.
// Ties go to the language whose first file came earliest.
func primaryLanguage(counts map[string]int, firstSeen []string) string {
	best, bestCount := "", 0
	for _, lang := range firstSeen {
		if n := counts[lang]; n > bestCount {
			best, bestCount = lang, n
		}
	}
	return best
}
