package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when there is none.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptReadmeSystem is the system prompt for README generation.
	// It has no template actions.
	PromptReadmeSystem = "readme_system"

	// PromptReadmeUser is the user prompt for README generation, rendered
	// with text/template over repository info, analysis, tech stack and
	// key file contents.
	PromptReadmeUser = "readme_user"
)
