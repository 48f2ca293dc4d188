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

package github

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// ResolveDiscussionID looks up the GraphQL node ID of a discussion.
	// The ID is required by the comment mutation.
	ResolveDiscussionID(ctx context.Context, ref DiscussionRef) (string, error)

	// FetchComments retrieves one page of comments from the discussion.
	// It supports cursor-based pagination through the opts.After parameter to fetch
	// subsequent pages. The page size can be configured via opts.PageSize.
	FetchComments(ctx context.Context, ref DiscussionRef, opts FetchOptions) (*CommentPage, error)

	// AddComment appends a comment with the given body to the discussion
	// identified by its node ID.
	AddComment(ctx context.Context, discussionID, body string) (*AddedComment, error)
}
