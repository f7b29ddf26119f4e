package mcp

import (
	"github.com/custodia-labs/readme-agent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Readme runs previews and generations.
	Readme driving.ReadmeService

	// History lists past generations. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Readme == nil {
		return ErrMissingReadmeService
	}
	return nil
}
