package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// RepoRef identifies a repository and optionally a branch, tag or commit.
type RepoRef struct {
	Owner string
	Name  string

	// Ref is a branch, tag or SHA. Empty means the default branch.
	Ref string
}

// ParseRepoRef parses "owner/repo", "owner/repo@ref" or a github.com URL.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")

	var ref string
	if i := strings.LastIndex(s, "@"); i >= 0 {
		ref = s[i+1:]
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return RepoRef{}, fmt.Errorf("%w: repository must be owner/name, got %q", ErrInvalidInput, s)
	}

	r := RepoRef{Owner: parts[0], Name: parts[1], Ref: ref}
	if err := r.Validate(); err != nil {
		return RepoRef{}, err
	}
	return r, nil
}

// Validate checks owner and name against GitHub naming rules.
func (r RepoRef) Validate() error {
	if !ownerPattern.MatchString(r.Owner) {
		return fmt.Errorf("%w: invalid owner %q", ErrInvalidInput, r.Owner)
	}
	if !namePattern.MatchString(r.Name) || r.Name == "." || r.Name == ".." {
		return fmt.Errorf("%w: invalid repository name %q", ErrInvalidInput, r.Name)
	}
	return nil
}

// FullName returns "owner/name".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// String returns "owner/name" or "owner/name@ref".
func (r RepoRef) String() string {
	if r.Ref == "" {
		return r.FullName()
	}
	return r.FullName() + "@" + r.Ref
}

// RepoInfo is repository metadata reported by the source.
type RepoInfo struct {
	Owner         string   `json:"owner"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Language      string   `json:"language"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	DefaultBranch string   `json:"default_branch,omitempty"`
	HTMLURL       string   `json:"html_url,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	License       string   `json:"license,omitempty"`

	// Revision pins the fetched content: a tree SHA for remote sources,
	// a content fingerprint for local ones.
	Revision string `json:"revision,omitempty"`
}

// CacheKey returns the snapshot cache key for this revision.
// Returns empty when no revision is known, which disables caching.
func (i RepoInfo) CacheKey() string {
	if i.Revision == "" {
		return ""
	}
	return i.FullName + "@" + i.Revision
}

// Snapshot is the fetched state of a repository at one revision.
type Snapshot struct {
	Repo      RepoInfo     `json:"repo"`
	Files     []FileRecord `json:"files"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// FileCount returns the number of file-kind records.
func (s *Snapshot) FileCount() int {
	n := 0
	for _, f := range s.Files {
		if f.IsFile() {
			n++
		}
	}
	return n
}

// Find returns the first record whose path matches, case-insensitively.
func (s *Snapshot) Find(p string) (FileRecord, bool) {
	for _, f := range s.Files {
		if strings.EqualFold(f.Path, p) {
			return f, true
		}
	}
	return FileRecord{}, false
}
