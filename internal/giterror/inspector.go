// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package giterror

import (
	"errors"
	"net"
	"strings"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsRepoNotFoundError returns true if the repository could not be resolved.
	IsRepoNotFoundError(err error) bool

	// IsDiscussionNotFoundError returns true if the discussion number or node ID
	// could not be resolved.
	IsDiscussionNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

var (
	authPatterns = []string{
		"401", "403", "unauthorized", "forbidden", "bad credentials", "authentication",
	}
	repoNotFoundPatterns = []string{
		"could not resolve to a repository",
	}
	discussionNotFoundPatterns = []string{
		"could not resolve to a discussion",
		"could not resolve to a node with the global id",
	}
	rateLimitPatterns = []string{
		"rate limit", "429",
	}
	networkPatterns = []string{
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable",
		"eof",
	}
)

// GitHubErrorInspector implements the Inspector interface for GitHub API errors.
// Typed errors in the chain are consulted first, then the message text, since
// shurcooL/graphql reports both HTTP status failures and GraphQL error
// payloads as plain strings.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	// A 403 caused by a secondary rate limit is not an auth failure.
	return matches(err, authPatterns) && !matches(err, rateLimitPatterns)
}

// IsRepoNotFoundError checks if the error reports an unknown repository.
func (i *GitHubErrorInspector) IsRepoNotFoundError(err error) bool {
	return matches(err, repoNotFoundPatterns)
}

// IsDiscussionNotFoundError checks if the error reports an unknown discussion.
func (i *GitHubErrorInspector) IsDiscussionNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	return matches(err, discussionNotFoundPatterns)
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) && rateLimitErr.IsRateLimitError() {
		return true
	}
	return matches(err, rateLimitPatterns)
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return matches(err, networkPatterns)
}

func matches(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
