package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// README generation is disabled; analysis and preview still work.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the remote API rejected an anonymous or invalid token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSourceUnavailable indicates the repository source could not be read.
	ErrSourceUnavailable = errors.New("repository source unavailable")

	// ErrEmptyRepository indicates a fetch produced no file records.
	ErrEmptyRepository = errors.New("repository has no readable files")
)
