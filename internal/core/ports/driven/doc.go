// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RepositorySource: Resolves and fetches a repository's file records
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates for README generation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model completion. Without it, only preview and analysis work.
//   - SnapshotStore: Cache of fetched snapshots. Without it, every request fetches.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
