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

// Package github provides a client for GitHub's GraphQL API scoped to the
// three operations a discussion-backed survey store needs: resolving a
// discussion's node ID, listing its comments page by page, and appending a
// comment.
//
// The package includes:
//   - A Client interface for the three operations
//   - A GraphQL implementation using the shurcooL/graphql library
//   - An in-memory mock discussion for testing
//   - Prometheus request metrics
//
// Every dynamic value is sent as a GraphQL variable; comment bodies are
// never spliced into the query document.
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	ref := github.DiscussionRef{Owner: "sancarn", Repo: "vba-articles", Number: 5}
//	page, err := client.FetchComments(ctx, ref, github.FetchOptions{PageSize: 100})
//	if err != nil {
//	    // Handle error
//	}
//	for _, c := range page.Comments {
//	    // Process comment body
//	}
package github
