package domain

import (
	"encoding/json"
	"path"
	"strings"
)

// FileKind distinguishes files from directories in a repository walk.
type FileKind string

// Available file kinds.
const (
	// KindFile is a regular file. It may carry decoded text content.
	KindFile FileKind = "file"

	// KindDirectory is a directory entry. It never carries content.
	KindDirectory FileKind = "directory"
)

// IsValid returns true if the kind is recognised.
func (k FileKind) IsValid() bool {
	return k == KindFile || k == KindDirectory
}

// String returns the string representation.
func (k FileKind) String() string {
	return string(k)
}

// FileRecord describes one path retrieved from a repository.
// Records are created once per fetched path and are not modified afterwards;
// the content is only reachable through Text so it cannot be replaced.
type FileRecord struct {
	// Path is the slash-separated path relative to the repository root.
	// It is unique within a fetch and acts as the record's identity.
	Path string

	// Size is the byte length reported by the source. It can differ from
	// the decoded content length.
	Size int64

	// Kind is file or directory.
	Kind FileKind

	content    string
	hasContent bool
}

// NewFile creates a file record with decoded text content.
func NewFile(p, content string, size int64) FileRecord {
	return FileRecord{
		Path:       p,
		Size:       size,
		Kind:       KindFile,
		content:    content,
		hasContent: true,
	}
}

// NewBinaryFile creates a file record whose content is absent, either because
// it is binary, undecodable or was not fetched.
func NewBinaryFile(p string, size int64) FileRecord {
	return FileRecord{
		Path: p,
		Size: size,
		Kind: KindFile,
	}
}

// NewDirectory creates a directory record.
func NewDirectory(p string) FileRecord {
	return FileRecord{
		Path: p,
		Kind: KindDirectory,
	}
}

// Text returns the decoded content and whether it is present.
func (f FileRecord) Text() (string, bool) {
	return f.content, f.hasContent
}

// HasContent reports whether decoded content is present.
func (f FileRecord) HasContent() bool {
	return f.hasContent
}

// IsFile reports whether the record is a regular file.
func (f FileRecord) IsFile() bool {
	return f.Kind == KindFile
}

// Base returns the final element of the path.
func (f FileRecord) Base() string {
	return path.Base(f.Path)
}

// Ext returns the lowercased extension of the path, including the dot.
func (f FileRecord) Ext() string {
	return strings.ToLower(path.Ext(f.Path))
}

// fileRecordJSON is the wire form of a FileRecord.
type fileRecordJSON struct {
	Path    string   `json:"path"`
	Content *string  `json:"content,omitempty"`
	Size    int64    `json:"size"`
	Kind    FileKind `json:"kind"`
}

// MarshalJSON encodes absent content as a missing field rather than "".
func (f FileRecord) MarshalJSON() ([]byte, error) {
	wire := fileRecordJSON{Path: f.Path, Size: f.Size, Kind: f.Kind}
	if f.hasContent {
		c := f.content
		wire.Content = &c
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (f *FileRecord) UnmarshalJSON(data []byte) error {
	var wire fileRecordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = FileRecord{Path: wire.Path, Size: wire.Size, Kind: wire.Kind}
	if wire.Kind == KindFile && wire.Content != nil {
		f.content = *wire.Content
		f.hasContent = true
	}
	return nil
}
