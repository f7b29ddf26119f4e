package domain

import (
	"strings"
	"unicode/utf8"
)

// ContextEntry is one file excerpt selected for a generation prompt.
type ContextEntry struct {
	// Path identifies the source file record.
	Path string `json:"path"`

	// Content is the possibly truncated file text.
	Content string `json:"content"`

	// Truncated is true when Content was cut at the per-file cap.
	Truncated bool `json:"truncated"`
}

// ContextBundle is an ordered, size-bounded set of file excerpts.
type ContextBundle struct {
	Entries []ContextEntry `json:"entries"`
}

// Len returns the number of entries.
func (b *ContextBundle) Len() int {
	return len(b.Entries)
}

// Size returns the total number of characters across entry contents.
func (b *ContextBundle) Size() int {
	n := 0
	for _, e := range b.Entries {
		n += utf8.RuneCountInString(e.Content)
	}
	return n
}

// Paths returns entry paths in bundle order.
func (b *ContextBundle) Paths() []string {
	paths := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Render concatenates the entries with a path header per entry.
func (b *ContextBundle) Render() string {
	parts := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		parts = append(parts, "=== "+e.Path+" ===\n"+e.Content+"\n")
	}
	return strings.Join(parts, "\n")
}
