package domain

import "time"

// Generation is a produced README together with the inputs that shaped it.
type Generation struct {
	// ID is a unique identifier for this generation.
	ID string `json:"id"`

	// Repo is the repository metadata at generation time.
	Repo RepoInfo `json:"repo"`

	// Readme is the generated Markdown document.
	Readme string `json:"readme"`

	// Profile is the classification the prompt was built from.
	Profile *ProjectProfile `json:"profile"`

	// ContextPaths lists the files included in the prompt, in order.
	ContextPaths []string `json:"context_paths"`

	// ExistingReadme is the repository's root README.md at fetch time, or
	// empty when it has none.
	ExistingReadme string `json:"existing_readme,omitempty"`

	// Model is the LLM model that produced the README.
	Model string `json:"model"`

	// FileCount is the number of file records fetched.
	FileCount int `json:"file_count"`

	// Duration is the wall time of the whole pipeline.
	Duration time.Duration `json:"duration"`

	// CreatedAt is when the generation completed.
	CreatedAt time.Time `json:"created_at"`
}

// ProgressStage names a step of the generation pipeline.
type ProgressStage string

// Pipeline stages, in execution order.
const (
	StageResolving   ProgressStage = "resolving"
	StageFetching    ProgressStage = "fetching"
	StageClassifying ProgressStage = "classifying"
	StageBudgeting   ProgressStage = "budgeting"
	StageGenerating  ProgressStage = "generating"
	StageDone        ProgressStage = "done"
	StageFailed      ProgressStage = "failed"
)

// String returns the string representation.
func (s ProgressStage) String() string {
	return string(s)
}

// IsTerminal reports whether no further events follow this stage.
func (s ProgressStage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}

// ProgressEvent reports pipeline progress to a caller.
type ProgressEvent struct {
	Stage   ProgressStage `json:"stage"`
	Message string        `json:"message"`

	// Done and Total count units of work within a stage, when known.
	Done  int `json:"done,omitempty"`
	Total int `json:"total,omitempty"`
}

// ProgressFunc receives progress events. It may be nil.
type ProgressFunc func(ProgressEvent)

// Emit calls f if it is non-nil.
func (f ProgressFunc) Emit(stage ProgressStage, message string) {
	if f != nil {
		f(ProgressEvent{Stage: stage, Message: message})
	}
}

// Step calls f with a counted event if it is non-nil.
func (f ProgressFunc) Step(stage ProgressStage, message string, done, total int) {
	if f != nil {
		f(ProgressEvent{Stage: stage, Message: message, Done: done, Total: total})
	}
}
