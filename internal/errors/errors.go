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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for the two failure kinds a survey store surfaces.
var (
	// ErrTransport indicates a GraphQL round trip failed: network or HTTP
	// failure, a GraphQL error payload, or a response missing the expected
	// nested fields. Every classification sentinel below travels with it.
	ErrTransport = errors.New("survey transport failed")

	// ErrDecode indicates a comment body was not valid JSON, or a record
	// could not be encoded for writing.
	// Maps to exit code 4.
	ErrDecode = errors.New("survey record decode failed")

	// ErrStaleHandle indicates a cached discussion ID no longer resolves.
	// It is always wrapped together with ErrTransport.
	ErrStaleHandle = errors.New("cached discussion handle is stale")
)

// Sentinel errors classifying transport failures for exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrDiscussionNotFound indicates the discussion number does not exist in the repository.
	// Maps to exit code 2.
	ErrDiscussionNotFound = errors.New("discussion not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrMalformedResponse indicates a response decoded without error but
	// lacked fields required to continue, such as a missing end cursor.
	ErrMalformedResponse = errors.New("malformed graphql response")
)

// ErrInvalidConfig indicates a store or CLI setting is missing or out of range.
// Maps to exit code 1.
var ErrInvalidConfig = errors.New("invalid configuration")
