// Package mcp provides an MCP (Model Context Protocol) server adapter for
// readme-agent. It lets AI assistants analyse repositories and request
// README drafts.
package mcp

import "errors"

// ErrMissingReadmeService is returned when the README service is not provided.
var ErrMissingReadmeService = errors.New("mcp: readme service is required")
