// Package tui provides an interactive terminal user interface for readme-agent.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Readme runs previews and generations.
	Readme driving.ReadmeService

	// History lists this session's generations. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(readme driving.ReadmeService, history driving.HistoryService) *Ports {
	return &Ports{
		Readme:  readme,
		History: history,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Readme == nil {
		return ErrMissingReadmeService
	}
	return nil
}
