package services

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// Dependency ecosystems reported in ProjectProfile.Dependencies.
const (
	EcosystemPython     = "python"
	EcosystemJavaScript = "javascript"
	EcosystemGo         = "go"
	EcosystemRust       = "rust"
)

// manifestParser extracts declared package names from a manifest.
type manifestParser struct {
	ecosystem string
	parse     func(content string) ([]string, error)
}

// manifestParsers is keyed by lowercased base file name.
var manifestParsers = map[string]manifestParser{
	"requirements.txt": {EcosystemPython, parseRequirements},
	"package.json":     {EcosystemJavaScript, parsePackageJSON},
	"go.mod":           {EcosystemGo, parseGoMod},
	"cargo.toml":       {EcosystemRust, parseCargoToml},
}

// extractDependencies runs the manifest parsers over files in order.
// A later manifest of the same ecosystem replaces an earlier one, and a
// manifest that fails to parse yields an empty list.
func extractDependencies(files []domain.FileRecord) map[string][]string {
	deps := make(map[string][]string)
	for _, f := range files {
		if !f.IsFile() {
			continue
		}
		p, ok := manifestParsers[strings.ToLower(f.Base())]
		if !ok {
			continue
		}
		text, ok := f.Text()
		if !ok || text == "" {
			continue
		}

		names, err := p.parse(text)
		if err != nil {
			logger.Debug("Manifest %s unparseable: %v", f.Path, err)
			names = []string{}
		}
		deps[p.ecosystem] = names
	}
	return deps
}

// parseRequirements reads a pip requirements file. Each name is the line up
// to the first version operator character.
func parseRequirements(content string) ([]string, error) {
	names := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexAny(line, "<>=!"); i >= 0 {
			line = line[:i]
		}
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

var errNotObject = errors.New("expected JSON object")

// parsePackageJSON returns dependency keys followed by devDependency keys,
// each in document order.
func parsePackageJSON(content string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var deps, devDeps []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch key, _ := tok.(string); key {
		case "dependencies":
			deps, err = objectKeys(dec)
		case "devDependencies":
			devDeps, err = objectKeys(dec)
		default:
			var skip json.RawMessage
			err = dec.Decode(&skip)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after package.json object")
	}

	return append(append([]string{}, deps...), devDeps...), nil
}

// objectKeys consumes one JSON object and returns its unique keys in order.
func objectKeys(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var keys []string
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errNotObject
	}
	return nil
}

// parseGoMod returns required module paths in file order.
func parseGoMod(content string) ([]string, error) {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		names = append(names, r.Mod.Path)
	}
	return names, nil
}

// parseCargoToml returns [dependencies] then [dev-dependencies] crate names,
// each table sorted by name.
func parseCargoToml(content string) ([]string, error) {
	var manifest struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, err
	}
	names := sortedKeys(manifest.Dependencies)
	return append(names, sortedKeys(manifest.DevDependencies)...), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
