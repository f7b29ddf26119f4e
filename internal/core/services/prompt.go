package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// maxDepsPerEcosystem limits the dependencies named in the tech stack summary.
const maxDepsPerEcosystem = 10

const defaultReadmeSystem = `You are a technical writer specializing in creating excellent README files for software projects.`

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultReadmeUser = `You are an expert technical writer tasked with creating a comprehensive README.md file for a GitHub repository.

Repository Information:
{{.RepoInfo}}

Project Analysis:
{{.Analysis}}

Technology Stack Details:
{{.TechStack}}

Key Files Content:
{{.KeyFiles}}

Please generate a well-structured README.md file that includes:

1. **Project Title and Description** - Clear, concise project overview based on repo name and description
2. **Features** - Key functionality and capabilities (infer from code structure and frameworks)
3. **Technology Stack** - Languages, frameworks, and tools used (use the detailed tech stack info)
4. **Prerequisites** - System requirements and dependencies needed
5. **Installation Instructions** - Step-by-step setup guide based on detected dependencies
6. **Usage Examples** - Code examples and basic usage based on main application files
7. **Project Structure** - Important directories and files explanation
8. **API Documentation** - If REST API detected (FastAPI/Flask/Express)
9. **Contributing Guidelines** - How others can contribute
10. **License Information** - If license file exists

Special Instructions:
- If Streamlit is detected, include ` + "`streamlit run app.py`" + ` command
- If FastAPI is detected, include ` + "`uvicorn`" + ` run commands and API endpoints
- If LangChain is detected, mention AI/NLP capabilities
- If requirements.txt exists, mention ` + "`pip install -r requirements.txt`" + `
- For web applications, include information about running development server
- Use proper Markdown formatting with badges if appropriate
- Be clear and concise but comprehensive
- Include code examples where relevant
- Make it beginner-friendly but informative

Generate only the README.md content without any additional explanations.`

// DefaultPrompts returns the embedded README prompt templates keyed by
// prompt name. File-based prompt stores seed their directory from these.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptReadmeSystem: defaultReadmeSystem,
		driven.PromptReadmeUser:   defaultReadmeUser,
	}
}

// promptData is the data passed to the readme_user template.
type promptData struct {
	RepoInfo  string
	Analysis  string
	TechStack string
	KeyFiles  string
	Repo      domain.RepoInfo
	Profile   *domain.ProjectProfile
}

// PromptBuilder renders README prompts from repository facts.
type PromptBuilder struct {
	store driven.PromptStore
}

// NewPromptBuilder creates a builder. A nil store uses the embedded templates.
func NewPromptBuilder(store driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// Build returns the system and user messages for a README request.
func (b *PromptBuilder) Build(
	info *domain.RepoInfo, profile *domain.ProjectProfile, bundle *domain.ContextBundle,
) (system, user string, err error) {
	if info == nil {
		info = &domain.RepoInfo{}
	}
	if bundle == nil {
		bundle = &domain.ContextBundle{}
	}
	system = b.load(driven.PromptReadmeSystem)

	tmpl, err := template.New(driven.PromptReadmeUser).Parse(b.load(driven.PromptReadmeUser))
	if err != nil {
		return "", "", fmt.Errorf("parse %s template: %w", driven.PromptReadmeUser, err)
	}

	repoJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode repository info: %w", err)
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode analysis: %w", err)
	}

	data := promptData{
		RepoInfo:  string(repoJSON),
		Analysis:  string(profileJSON),
		TechStack: TechStackSummary(profile),
		KeyFiles:  bundle.Render(),
		Repo:      *info,
		Profile:   profile,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", driven.PromptReadmeUser, err)
	}

	logger.Debug("Prompt: system=%d chars, user=%d chars", len(system), sb.Len())
	return system, sb.String(), nil
}

// load returns the stored template, or the embedded one when the store
// is absent or fails.
func (b *PromptBuilder) load(name string) string {
	if b.store != nil {
		p, err := b.store.Load(name)
		if err == nil && strings.TrimSpace(p) != "" {
			return p
		}
		if err != nil {
			logger.Warn("Prompt %s unavailable, using default: %v", name, err)
		}
	}
	return DefaultPrompts()[name]
}

// TechStackSummary describes a profile in a few human-readable lines.
func TechStackSummary(profile *domain.ProjectProfile) string {
	if profile == nil {
		return ""
	}

	var lines []string
	if profile.HasPrimaryLanguage() {
		lines = append(lines, "Primary Language: "+profile.PrimaryLanguage)
	}

	if len(profile.LanguageCounts) > 0 {
		langs := make([]string, 0, len(profile.LanguageCounts))
		for _, lang := range sortedByCount(profile.LanguageCounts) {
			langs = append(langs, fmt.Sprintf("%s (%d files)", lang, profile.LanguageCounts[lang]))
		}
		lines = append(lines, "Languages: "+strings.Join(langs, ", "))
	}

	if len(profile.Frameworks) > 0 {
		lines = append(lines, "Frameworks/Libraries: "+strings.Join(profile.Frameworks, ", "))
	}

	for _, eco := range sortedEcosystems(profile.Dependencies) {
		deps := profile.Dependencies[eco]
		if len(deps) == 0 {
			continue
		}
		if len(deps) > maxDepsPerEcosystem {
			deps = deps[:maxDepsPerEcosystem]
		}
		lines = append(lines, fmt.Sprintf("%s Dependencies: %s", titleWord(eco), strings.Join(deps, ", ")))
	}

	if profile.ProjectType.IsKnown() {
		lines = append(lines, "Project Type: "+profile.ProjectType.Title())
	}

	return strings.Join(lines, "\n")
}

// sortedByCount orders languages by descending count, then name.
func sortedByCount(counts map[string]int) []string {
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}

func sortedEcosystems(deps map[string][]string) []string {
	ecos := make([]string, 0, len(deps))
	for eco := range deps {
		ecos = append(ecos, eco)
	}
	sort.Strings(ecos)
	return ecos
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
