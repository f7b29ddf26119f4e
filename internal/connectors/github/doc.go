// Package github reads repositories through the GitHub REST API.
//
// Source implements driven.RepositorySource. Resolve pins a repository to
// the SHA of its recursive tree; Fetch walks that tree and downloads blob
// content with a bounded number of concurrent requests.
//
// Requests work without a token, subject to the anonymous rate limit. The
// client throttles proactively and honours the X-RateLimit headers GitHub
// returns.
package github
