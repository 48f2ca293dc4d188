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

// Package survey stores survey results as comments on a GitHub Discussion.
//
// Each result is one JSON document held in the body of one comment. The
// discussion is an append-only log: AddResult posts a new comment and
// GetResults reads every comment back, oldest first, and decodes it.
//
// Reading pages through the discussion's comments with cursor pagination,
// up to 100 comments per request, and fetches the whole thread on every
// call. Writing needs the discussion's GraphQL node ID, which the Store
// looks up on the first write and reuses afterwards.
//
// Basic usage:
//
//	store, err := survey.New(survey.Config{
//	    Owner:      "sancarn",
//	    Repo:       "vba-articles",
//	    Discussion: 5,
//	    Token:      os.Getenv("GITHUB_TOKEN"),
//	})
//	if err != nil {
//	    return err
//	}
//
//	if _, err := store.AddResult(ctx, map[string]any{"score": 4}); err != nil {
//	    return err
//	}
//
//	records, err := store.GetResults(ctx)
//
// Errors wrap ErrTransport when a request fails, ErrDecode when a record
// cannot be encoded or a comment is not JSON, and ErrStaleHandle when a
// write fails because the cached discussion ID no longer resolves.
package survey
