package connectors

import (
	"bytes"
	"path"
	"strings"
	"unicode/utf8"
)

// MaxContentSize is the largest file whose content is read. Larger files
// are recorded with their size and no content.
const MaxContentSize = 1024 * 1024

// DefaultMaxFiles caps the file records produced by one fetch.
const DefaultMaxFiles = 50

// skipDirs are directory names whose subtrees are never walked.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"__pycache__":  true,
}

// binaryExts are extensions whose content is never read.
var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".bin": true, ".dat": true, ".db": true, ".sqlite": true,
	".pyc": true, ".pyo": true, ".class": true, ".o": true, ".a": true,
	".jar": true, ".wasm": true,
}

// IsSkippedDir reports whether a directory with this base name is skipped.
func IsSkippedDir(name string) bool {
	return skipDirs[name]
}

// UnderSkippedDir reports whether any element of the slash-separated path
// p is a skipped directory.
func UnderSkippedDir(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// IsBinaryExtension checks if a file extension indicates a binary file.
func IsBinaryExtension(p string) bool {
	return binaryExts[strings.ToLower(path.Ext(p))]
}

// DecodeText returns data as text. It fails for invalid UTF-8 and for data
// containing NUL bytes.
func DecodeText(data []byte) (string, bool) {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}
