// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewGenerate is the repository input, analysis and README view.
	ViewGenerate ViewType = iota
	// ViewHistory lists the generations of this session.
	ViewHistory
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewGenerate:
		return "generate"
	case ViewHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Next returns the view that Tab switches to.
func (v ViewType) Next() ViewType {
	if v == ViewGenerate {
		return ViewHistory
	}
	return ViewGenerate
}

// ProgressReported carries one pipeline progress event.
type ProgressReported struct {
	Event domain.ProgressEvent
}

// PreviewCompleted carries the analysis of a repository.
type PreviewCompleted struct {
	Ref     domain.RepoRef
	Preview *domain.Preview
	Err     error
}

// GenerationCompleted carries a generated README.
type GenerationCompleted struct {
	Ref        domain.RepoRef
	Generation *domain.Generation
	Err        error
}

// GenerationSelected is sent when a history entry is opened.
type GenerationSelected struct {
	Generation *domain.Generation
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
