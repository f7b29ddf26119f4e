// Package domain defines the core business entities for readme-agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FileRecord: One retrieved file or directory from a repository walk
//   - ProjectProfile: The structured classification of a repository
//   - ContextBundle: Size-bounded file excerpts for a generation prompt
//   - Snapshot: A repository's metadata plus its fetched file records
//   - Generation: A produced README and the profile it was built from
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
