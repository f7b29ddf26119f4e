package domain

import "strings"

// ProjectType is the archetype label summarising a project's purpose.
// The set is closed: the four named archetypes, a language-derived
// "<language>_application" label, or unknown.
type ProjectType string

// Named project archetypes.
const (
	ProjectTypeWeb             ProjectType = "web_application"
	ProjectTypeGUI             ProjectType = "gui_application"
	ProjectTypeMachineLearning ProjectType = "machine_learning"
	ProjectTypeDataAnalysis    ProjectType = "data_analysis"
	ProjectTypeUnknown         ProjectType = "unknown"
)

const applicationSuffix = "_application"

// LanguageApplication returns the generic archetype for a language label,
// e.g. "go" becomes "go_application".
func LanguageApplication(label string) ProjectType {
	if label == "" {
		return ProjectTypeUnknown
	}
	return ProjectType(label + applicationSuffix)
}

// String returns the string representation.
func (t ProjectType) String() string {
	return string(t)
}

// IsKnown returns false only for the unknown archetype.
func (t ProjectType) IsKnown() bool {
	return t != ProjectTypeUnknown && t != ""
}

// Title returns a human-readable label, e.g. "Web Application".
func (t ProjectType) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ProjectProfile is the structured classification of a repository.
// Frameworks and Dependencies are derived independently from the same records.
type ProjectProfile struct {
	// LanguageCounts maps a language name to the number of files in it.
	LanguageCounts map[string]int `json:"languages"`

	// Frameworks is the set of detected technologies, listed in catalog order.
	Frameworks []string `json:"frameworks"`

	// Dependencies maps an ecosystem name to its declared package names.
	Dependencies map[string][]string `json:"dependencies"`

	// ProjectType is the derived archetype.
	ProjectType ProjectType `json:"project_type"`

	// MainFiles are paths matching build/dependency manifest conventions.
	MainFiles []string `json:"main_files"`

	// ConfigFiles are paths matching configuration conventions.
	ConfigFiles []string `json:"config_files"`

	// HasTests is set once any path looks like a test.
	HasTests bool `json:"has_tests"`

	// HasDocs is set once any path looks like documentation.
	HasDocs bool `json:"has_docs"`

	// PrimaryLanguage is the language with the highest count.
	// Empty when no language was detected.
	PrimaryLanguage string `json:"primary_language,omitempty"`

	// FileCount is the number of file records classified.
	FileCount int `json:"file_count"`
}

// NewProjectProfile returns an empty profile with non-nil collections.
func NewProjectProfile() *ProjectProfile {
	return &ProjectProfile{
		LanguageCounts: make(map[string]int),
		Frameworks:     []string{},
		Dependencies:   make(map[string][]string),
		ProjectType:    ProjectTypeUnknown,
		MainFiles:      []string{},
		ConfigFiles:    []string{},
	}
}

// HasPrimaryLanguage reports whether a primary language was detected.
func (p *ProjectProfile) HasPrimaryLanguage() bool {
	return p.PrimaryLanguage != ""
}

// HasFramework reports whether the named technology was detected.
func (p *ProjectProfile) HasFramework(name string) bool {
	for _, f := range p.Frameworks {
		if f == name {
			return true
		}
	}
	return false
}

// IsMainFile reports whether a path was recorded as a main file.
func (p *ProjectProfile) IsMainFile(path string) bool {
	for _, m := range p.MainFiles {
		if m == path {
			return true
		}
	}
	return false
}

// Preview pairs repository metadata with its classification.
type Preview struct {
	Repo    RepoInfo        `json:"repo_info"`
	Profile *ProjectProfile `json:"analysis"`
}
