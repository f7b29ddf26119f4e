package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextBundle_Render(t *testing.T) {
	b := &ContextBundle{Entries: []ContextEntry{
		{Path: "app.py", Content: "import flask"},
		{Path: "requirements.txt", Content: "flask==2.0"},
	}}

	want := "=== app.py ===\nimport flask\n\n=== requirements.txt ===\nflask==2.0\n"
	assert.Equal(t, want, b.Render())
}

func TestContextBundle_Empty(t *testing.T) {
	b := &ContextBundle{}

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Size())
	assert.Empty(t, b.Paths())
	assert.Empty(t, b.Render())
}

func TestContextBundle_SizeCountsRunes(t *testing.T) {
	b := &ContextBundle{Entries: []ContextEntry{
		{Path: "a", Content: "héllo"},
		{Path: "b", Content: "日本"},
	}}

	assert.Equal(t, 7, b.Size())
	assert.Equal(t, []string{"a", "b"}, b.Paths())
	assert.Equal(t, 2, b.Len())
}
