package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

// highlightStyle is the chroma style used for terminal output.
const highlightStyle = "monokai"

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeMarkdown prints a Markdown document, coloured when color is set.
func writeMarkdown(w io.Writer, markdown string, color bool) error {
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if color {
		if err := quick.Highlight(w, markdown, "markdown", "terminal256", highlightStyle); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}

// unifiedDiff returns a unified diff from the existing README to the
// generated one. An empty string means the documents are identical.
func unifiedDiff(existing, generated string) (string, error) {
	from := "a/README.md"
	if existing == "" {
		from = "/dev/null"
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(existing),
		B:        splitLines(ensureNewline(generated)),
		FromFile: from,
		ToFile:   "b/README.md",
		Context:  diffContext,
	})
}

// splitLines splits s into lines that keep their newline. Empty input has
// no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(ensureNewline(s), "\n")
	return lines[:len(lines)-1]
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// writeProfile prints a human-readable project analysis.
func writeProfile(w io.Writer, repo domain.RepoInfo, p *domain.ProjectProfile) {
	if p == nil {
		p = domain.NewProjectProfile()
	}

	fmt.Fprintf(w, "Repository: %s\n", repo.FullName)
	if repo.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", repo.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Project type:     %s\n", p.ProjectType.Title())
	fmt.Fprintf(w, "  Primary language: %s\n", orNone(p.PrimaryLanguage))
	fmt.Fprintf(w, "  Files:            %d\n", p.FileCount)
	fmt.Fprintf(w, "  Tests:            %s\n", yesNo(p.HasTests))
	fmt.Fprintf(w, "  Docs:             %s\n", yesNo(p.HasDocs))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Languages:")
	langs := make([]string, 0, len(p.LanguageCounts))
	for lang := range p.LanguageCounts {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		ci, cj := p.LanguageCounts[langs[i]], p.LanguageCounts[langs[j]]
		if ci != cj {
			return ci > cj
		}
		return langs[i] < langs[j]
	})
	if len(langs) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, lang := range langs {
		fmt.Fprintf(w, "  %-16s %d\n", lang, p.LanguageCounts[lang])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Frameworks: %s\n", orNone(strings.Join(p.Frameworks, ", ")))

	fmt.Fprintln(w, "Dependencies:")
	ecosystems := make([]string, 0, len(p.Dependencies))
	for eco := range p.Dependencies {
		ecosystems = append(ecosystems, eco)
	}
	sort.Strings(ecosystems)
	if len(ecosystems) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, eco := range ecosystems {
		fmt.Fprintf(w, "  %s: %s\n", eco, strings.Join(p.Dependencies[eco], ", "))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
