// Package connectors holds the repository sources that produce file records
// for classification, plus the content rules they share.
//
// Each subpackage implements driven.RepositorySource for one kind of
// location (a GitHub repository, a local directory).
package connectors
