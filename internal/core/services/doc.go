// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Classifier turns fetched file records into a ProjectProfile, the
// ContextBudgeter selects bounded file excerpts for a prompt, and the
// ReadmeService ties fetching, classification and generation together.
//
// Services are pure Go with no CGO dependencies.
package services
