// Package filesystem reads a local directory as a repository.
//
// Source implements driven.RepositorySource. The revision of a directory is
// a fingerprint of the paths, sizes and modification times it contains, so
// an unchanged tree hits the snapshot cache.
package filesystem
