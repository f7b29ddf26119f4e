package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/custodia-labs/readme-agent/internal/connectors"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
)

// LocalOwner is the owner reported for local directories.
const LocalOwner = "local"

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Ensure Source implements the interface.
var _ driven.RepositorySource = (*Source)(nil)

// Source reads files below a root directory.
type Source struct {
	root     string
	maxFiles int
}

// NewSource creates a source rooted at root. A non-positive maxFiles uses
// connectors.DefaultMaxFiles.
func NewSource(root string, maxFiles int) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if maxFiles <= 0 {
		maxFiles = connectors.DefaultMaxFiles
	}
	return &Source{root: abs, maxFiles: maxFiles}, nil
}

// Root returns the absolute root directory.
func (s *Source) Root() string {
	return s.root
}

// Ref returns the reference that names this directory.
func (s *Source) Ref() domain.RepoRef {
	name := invalidNameChars.ReplaceAllString(filepath.Base(s.root), "-")
	if name == "" || name == "." || name == ".." || name == "-" {
		name = "root"
	}
	return domain.RepoRef{Owner: LocalOwner, Name: name}
}

// Resolve fingerprints the directory. The ref is ignored; the root decides
// what is read.
func (s *Source) Resolve(ctx context.Context, _ domain.RepoRef) (*domain.RepoInfo, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	hasher := xxh3.New()
	err := s.walk(ctx, func(rel string, d fs.DirEntry, info fs.FileInfo) {
		_, _ = hasher.WriteString(rel)
		_, _ = hasher.WriteString("\x00")
		if info != nil {
			_, _ = hasher.WriteString(strconv.FormatInt(info.Size(), 10))
			_, _ = hasher.WriteString("\x00")
			_, _ = hasher.WriteString(strconv.FormatInt(info.ModTime().UnixNano(), 10))
		}
		_, _ = hasher.WriteString("\n")
	})
	if err != nil {
		return nil, err
	}

	ref := s.Ref()
	return &domain.RepoInfo{
		Owner:    ref.Owner,
		Name:     ref.Name,
		FullName: ref.FullName(),
		HTMLURL:  "file://" + filepath.ToSlash(s.root),
		Revision: fmt.Sprintf("%016x", hasher.Sum64()),
	}, nil
}

// Fetch reads the directory in lexical walk order.
func (s *Source) Fetch(ctx context.Context, _ *domain.RepoInfo) ([]domain.FileRecord, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	var records []domain.FileRecord
	err := s.walk(ctx, func(rel string, d fs.DirEntry, info fs.FileInfo) {
		if d.IsDir() {
			records = append(records, domain.NewDirectory(rel))
			return
		}
		records = append(records, s.readFile(rel, info))
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// readFile builds a file record, leaving content absent when it is binary,
// too large or unreadable.
func (s *Source) readFile(rel string, info fs.FileInfo) domain.FileRecord {
	var size int64
	if info != nil {
		size = info.Size()
	}
	if info == nil || connectors.IsBinaryExtension(rel) || size > connectors.MaxContentSize {
		return domain.NewBinaryFile(rel, size)
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return domain.NewBinaryFile(rel, size)
	}
	text, ok := connectors.DecodeText(data)
	if !ok {
		return domain.NewBinaryFile(rel, size)
	}
	return domain.NewFile(rel, text, size)
}

// walk visits directories and regular files below the root, skipping the
// shared skip list and stopping after maxFiles files. info is nil when the
// file could not be stat'ed.
func (s *Source) walk(ctx context.Context, visit func(rel string, d fs.DirEntry, info fs.FileInfo)) error {
	files := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == s.root {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if connectors.IsSkippedDir(d.Name()) {
				return fs.SkipDir
			}
			visit(rel, d, nil)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if files >= s.maxFiles {
			return fs.SkipAll
		}
		files++

		info, err := d.Info()
		if err != nil {
			visit(rel, d, nil)
			return nil
		}
		visit(rel, d, info)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", s.root, err)
	}
	return nil
}

func (s *Source) checkRoot() error {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: directory %s does not exist", domain.ErrNotFound, s.root)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, s.root)
	}
	return nil
}
