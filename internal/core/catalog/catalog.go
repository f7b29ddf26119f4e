package catalog

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// MaxPatternContent is the content length, in characters, at or above which a
// file is skipped for technology detection. It still counts towards languages.
const MaxPatternContent = 50000

// Technology is a named library or framework recognised by content signatures.
type Technology struct {
	// Name is the display name reported in profiles, e.g. "FastAPI".
	Name string

	// Signatures are tried in order; any one match detects the technology.
	Signatures []*regexp.Regexp
}

// Matches reports whether any signature matches content.
// Matching stops at the first signature that hits.
func (t Technology) Matches(content string) bool {
	for _, sig := range t.Signatures {
		if sig.MatchString(content) {
			return true
		}
	}
	return false
}

// TechnologySpec is the uncompiled form of a Technology.
type TechnologySpec struct {
	Name     string
	Patterns []string
}

// ArchetypeRule maps detected technologies to a project type.
// Rules are evaluated in order and the first match wins.
type ArchetypeRule struct {
	Type domain.ProjectType

	// Technologies triggers the rule when any one of them is detected.
	Technologies []string

	// Language, when set, must also equal the primary language.
	Language string
}

// Options configures a Catalog. Zero-valued fields are left empty,
// so callers substituting tables should start from DefaultOptions.
type Options struct {
	// Languages maps a lowercased extension including the dot to a language.
	Languages map[string]string

	// Labels maps a language to the label used in "<label>_application".
	// Languages without an entry use their lowercased name.
	Labels map[string]string

	Technologies   []TechnologySpec
	Important      []string
	Config         []string
	DocIndicators  []string
	TestIndicators []string
	Rules          []ArchetypeRule
}

// Catalog is the read-only registry of recognition tables.
// It is safe for concurrent use.
type Catalog struct {
	languages      map[string]string
	labels         map[string]string
	technologies   []Technology
	important      []string
	config         []string
	docIndicators  []string
	testIndicators []string
	rules          []ArchetypeRule
}

// New compiles opts into a Catalog. Every signature is compiled
// case-insensitive and multi-line.
func New(opts Options) (*Catalog, error) {
	c := &Catalog{
		languages:      make(map[string]string, len(opts.Languages)),
		labels:         make(map[string]string, len(opts.Labels)),
		technologies:   make([]Technology, 0, len(opts.Technologies)),
		important:      append([]string(nil), opts.Important...),
		config:         append([]string(nil), opts.Config...),
		docIndicators:  lowerAll(opts.DocIndicators),
		testIndicators: lowerAll(opts.TestIndicators),
		rules:          append([]ArchetypeRule(nil), opts.Rules...),
	}

	for ext, lang := range opts.Languages {
		c.languages[strings.ToLower(ext)] = lang
	}
	for lang, label := range opts.Labels {
		c.labels[lang] = label
	}

	for _, spec := range opts.Technologies {
		tech := Technology{Name: spec.Name, Signatures: make([]*regexp.Regexp, 0, len(spec.Patterns))}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile("(?im)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile signature %q for %s: %w", p, spec.Name, err)
			}
			tech.Signatures = append(tech.Signatures, re)
		}
		c.technologies = append(c.technologies, tech)
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the shared built-in catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// Language returns the language for an extension such as ".py".
func (c *Catalog) Language(ext string) (string, bool) {
	lang, ok := c.languages[strings.ToLower(ext)]
	return lang, ok
}

// Label returns the archetype label for a language, e.g. "C++" gives "cpp".
func (c *Catalog) Label(language string) string {
	if language == "" {
		return ""
	}
	if label, ok := c.labels[language]; ok {
		return label
	}
	return strings.ToLower(language)
}

// IsImportant reports whether p names a build or dependency manifest.
func (c *Catalog) IsImportant(p string) bool {
	return matchesNameSet(p, c.important)
}

// IsConfig reports whether p names a configuration file.
func (c *Catalog) IsConfig(p string) bool {
	return matchesNameSet(p, c.config)
}

// IsDocPath reports whether p looks like documentation.
func (c *Catalog) IsDocPath(p string) bool {
	return containsAny(strings.ToLower(p), c.docIndicators)
}

// IsTestPath reports whether p looks like a test.
func (c *Catalog) IsTestPath(p string) bool {
	return containsAny(strings.ToLower(p), c.testIndicators)
}

// Technologies returns the technologies in catalog order.
func (c *Catalog) Technologies() []Technology {
	return c.technologies
}

// Match returns the names of technologies detected in content,
// in catalog order. Content at or above MaxPatternContent characters
// yields nil.
func (c *Catalog) Match(content string) []string {
	if content == "" || tooLong(content) {
		return nil
	}
	var names []string
	for _, tech := range c.technologies {
		if tech.Matches(content) {
			names = append(names, tech.Name)
		}
	}
	return names
}

// ArchetypeFor derives the project type from detected technologies and
// the primary language.
func (c *Catalog) ArchetypeFor(frameworks []string, primary string) domain.ProjectType {
	detected := make(map[string]struct{}, len(frameworks))
	for _, f := range frameworks {
		detected[f] = struct{}{}
	}

	for _, rule := range c.rules {
		if rule.Language != "" && !strings.EqualFold(rule.Language, primary) {
			continue
		}
		for _, tech := range rule.Technologies {
			if _, ok := detected[tech]; ok {
				return rule.Type
			}
		}
	}

	return domain.LanguageApplication(c.Label(primary))
}

// matchesNameSet is true when the lowercased base name equals a lowercased
// entry, or when the path contains an entry verbatim.
func matchesNameSet(p string, names []string) bool {
	base := strings.ToLower(path.Base(p))
	for _, name := range names {
		if base == strings.ToLower(name) || strings.Contains(p, name) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// tooLong reports whether content has MaxPatternContent or more runes.
// A rune never takes less than one byte, so short byte lengths skip the count.
func tooLong(content string) bool {
	if len(content) < MaxPatternContent {
		return false
	}
	return utf8.RuneCountInString(content) >= MaxPatternContent
}
