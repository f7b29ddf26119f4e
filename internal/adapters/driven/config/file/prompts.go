package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

var errEmptyTemplate = errors.New("empty template")

// PromptExt is the file extension of prompt templates.
const PromptExt = ".tmpl"

// PromptStore loads LLM prompt templates from user-editable files on disk.
// Templates are read from a configurable directory with fallback to the
// defaults supplied at construction.
//
// The directory is populated lazily on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	defaults  map[string]string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store seeded with defaults.
// If promptDir is empty, defaults to ~/.readme-agent/prompts/.
func NewPromptStore(promptDir string, defaults map[string]string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, DefaultDirName, "prompts")
	}

	seeded := make(map[string]string, len(defaults))
	for name, content := range defaults {
		seeded[name] = content
	}

	return &PromptStore{
		promptDir: promptDir,
		defaults:  seeded,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for the given name.
// On first call, creates the prompt directory and writes default files.
// Falls back to the default if the file is missing or unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := s.defaults[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if def, ok := s.defaults[name]; ok {
			return def, nil
		}
		if err == nil {
			err = errEmptyTemplate
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Path returns the file path of the named template.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.promptDir, name+PromptExt)
}

// initialise creates the prompt directory and default files.
// Existing files are left untouched.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := s.Path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# readme-agent prompts

Templates in this directory drive README generation.

## Files

- ` + "`readme_system.tmpl`" + ` - System message sent to the model
- ` + "`readme_user.tmpl`" + ` - Request describing the repository

## Customisation

Edit a file to change what the model is asked. A running server picks up
changes immediately; other commands read the files on start.

## Template fields

Templates use Go text/template syntax:
- ` + "`{{.RepoInfo}}`" + ` - Repository metadata as JSON
- ` + "`{{.Analysis}}`" + ` - Project analysis as JSON
- ` + "`{{.TechStack}}`" + ` - Human-readable technology summary
- ` + "`{{.KeyFiles}}`" + ` - Selected file excerpts
- ` + "`{{.Repo}}`" + ` and ` + "`{{.Profile}}`" + ` - The same data as structured values

Delete a file to restore its default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
