package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/readme-agent/internal/connectors"
	"github.com/custodia-labs/readme-agent/internal/core/domain"
	"github.com/custodia-labs/readme-agent/internal/core/ports/driven"
	"github.com/custodia-labs/readme-agent/internal/logger"
)

// Tree entry types returned by the Git trees API.
const (
	entryBlob = "blob"
	entryTree = "tree"
)

// Ensure Source implements the interface.
var _ driven.RepositorySource = (*Source)(nil)

// Source fetches repositories from GitHub.
type Source struct {
	client *Client
	config Config
}

// NewSource creates a GitHub source. Zero config fields use defaults.
func NewSource(client *Client, cfg Config) *Source {
	return &Source{client: client, config: cfg.withDefaults()}
}

// Resolve looks up repository metadata and pins the tree SHA of the
// requested ref, or of the default branch when no ref is given.
func (s *Source) Resolve(ctx context.Context, ref domain.RepoRef) (*domain.RepoInfo, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	repo, err := s.client.GetRepository(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref.FullName(), err)
	}

	info := repoInfo(repo)
	if info.Owner == "" || info.Name == "" {
		info.Owner, info.Name = ref.Owner, ref.Name
	}
	if info.FullName == "" {
		info.FullName = ref.FullName()
	}
	sha := ref.Ref
	if sha == "" {
		sha = info.DefaultBranch
	}
	if sha == "" {
		sha = "HEAD"
	}

	// The root tree SHA is the same with or without recursion.
	tree, err := s.client.GetTree(ctx, info.Owner, info.Name, sha, false)
	if err != nil {
		return nil, fmt.Errorf("resolve %s@%s: %w", ref.FullName(), sha, err)
	}
	info.Revision = tree.GetSHA()

	return info, nil
}

// plannedBlob is a file record whose content still has to be downloaded.
type plannedBlob struct {
	index int
	sha   string
}

// Fetch walks the tree pinned by info.Revision and returns records in tree
// order. Blob failures leave the record without content.
func (s *Source) Fetch(ctx context.Context, info *domain.RepoInfo) ([]domain.FileRecord, error) {
	if info == nil || info.Revision == "" {
		return nil, fmt.Errorf("%w: repository has no resolved revision", domain.ErrInvalidInput)
	}

	tree, err := s.client.GetTree(ctx, info.Owner, info.Name, info.Revision, true)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", info.FullName, err)
	}
	if tree.GetTruncated() {
		logger.Warn("Tree for %s is truncated; fetching the first %d entries", info.FullName, len(tree.Entries))
	}

	records, blobs := s.plan(tree.Entries)
	logger.Debug("Fetching %d of %d blobs for %s", len(blobs), len(records), info.FullName)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, b := range blobs {
		g.Go(func() error {
			rec := records[b.index]
			data, err := s.client.GetBlob(gctx, info.Owner, info.Name, b.sha)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Debug("Blob %s unavailable: %v", rec.Path, err)
				return nil
			}
			if text, ok := connectors.DecodeText(data); ok {
				records[b.index] = domain.NewFile(rec.Path, text, rec.Size)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", info.FullName, err)
	}

	return records, nil
}

// plan converts tree entries into records, all file records starting
// without content, and lists the blobs worth downloading.
func (s *Source) plan(entries []*gh.TreeEntry) ([]domain.FileRecord, []plannedBlob) {
	var records []domain.FileRecord
	var blobs []plannedBlob
	files := 0

	for _, entry := range entries {
		if files >= s.config.MaxFiles {
			break
		}
		p := entry.GetPath()
		if connectors.UnderSkippedDir(p) {
			continue
		}

		switch entry.GetType() {
		case entryTree:
			records = append(records, domain.NewDirectory(p))
		case entryBlob:
			size := int64(entry.GetSize())
			if !connectors.IsBinaryExtension(p) && size <= s.config.MaxBlobSize {
				blobs = append(blobs, plannedBlob{index: len(records), sha: entry.GetSHA()})
			}
			records = append(records, domain.NewBinaryFile(p, size))
			files++
		}
	}

	return records, blobs
}

func repoInfo(repo *gh.Repository) *domain.RepoInfo {
	info := &domain.RepoInfo{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		DefaultBranch: repo.GetDefaultBranch(),
		HTMLURL:       repo.GetHTMLURL(),
		Topics:        repo.Topics,
	}
	if lic := repo.GetLicense(); lic != nil {
		info.License = lic.GetSPDXID()
		if info.License == "" {
			info.License = lic.GetName()
		}
	}
	return info
}
