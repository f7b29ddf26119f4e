// Package catalog holds the recognition tables used to classify a repository:
// extension to language, technology signatures, manifest and config file
// names, path indicators and the ordered archetype rules.
//
// A Catalog is immutable once built. Use Default for the built-in tables or
// New with a modified DefaultOptions to substitute them.
package catalog
