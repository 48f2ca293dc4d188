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

// Package github provides types and interfaces for interacting with the GitHub API.
package github

import (
	"fmt"
	"time"
)

// Page size limits for discussion comment queries.
const (
	// DefaultPageSize is used when a caller does not specify a page size.
	DefaultPageSize = 100

	// MaxPageSize is GitHub's upper bound for a connection's first argument.
	MaxPageSize = 100
)

// DiscussionRef names the discussion whose comments hold the survey results.
// It is the key for both comment listing and node ID resolution.
type DiscussionRef struct {
	Owner  string
	Repo   string
	Number int
}

// String returns the ref in owner/repo#number form.
func (r DiscussionRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// Validate reports whether every part of the ref is present.
func (r DiscussionRef) Validate() error {
	if r.Owner == "" {
		return fmt.Errorf("discussion owner is required")
	}
	if r.Repo == "" {
		return fmt.Errorf("discussion repository is required")
	}
	if r.Number <= 0 {
		return fmt.Errorf("discussion number must be positive, got: %d", r.Number)
	}
	return nil
}

// Comment is a single discussion comment. Body carries one serialized
// survey result; the other fields are informational.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPage represents a page of discussion comments from a GraphQL query.
// Comments are in the order GitHub delivers them, oldest first.
type CommentPage struct {
	Comments    []Comment
	HasNextPage bool
	EndCursor   string
}

// Bodies returns the comment bodies of the page in order.
func (p *CommentPage) Bodies() []string {
	bodies := make([]string, 0, len(p.Comments))
	for _, c := range p.Comments {
		bodies = append(bodies, c.Body)
	}
	return bodies
}

// FetchOptions configures how comments are fetched.
type FetchOptions struct {
	// PageSize controls how many comments to fetch per page.
	// Defaults to 100 if not specified, and is capped at 100.
	PageSize int

	// After is the cursor for pagination.
	// Empty string fetches from the beginning.
	// Use CommentPage.EndCursor from previous response for next page.
	After string
}

// AddedComment is the confirmation returned by the addDiscussionComment mutation.
type AddedComment struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// AddDiscussionCommentInput is the GraphQL input object for addDiscussionComment.
// The type name is significant: shurcooL/graphql derives the variable's
// GraphQL type from it.
type AddDiscussionCommentInput struct {
	DiscussionID string `json:"discussionId"`
	Body         string `json:"body"`
}

// EffectivePageSize clamps a requested page size into GitHub's accepted range.
func EffectivePageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	if requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}
