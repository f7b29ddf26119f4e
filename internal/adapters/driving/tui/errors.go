package tui

import "errors"

// ErrMissingReadmeService is returned when the README service is not provided.
var ErrMissingReadmeService = errors.New("tui: readme service is required")
