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
	"fmt"
	"net"
	"testing"
)

func TestGitHubErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "401 unauthorized",
			err:  errors.New(`non-200 OK status code: 401 Unauthorized body: "{\"message\":\"Bad credentials\"}"`),
			want: true,
		},
		{
			name: "403 forbidden",
			err:  errors.New("403 Forbidden"),
			want: true,
		},
		{
			name: "403 secondary rate limit",
			err:  errors.New("403 Forbidden: You have exceeded a secondary rate limit"),
			want: false,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("failed to query: %w", errors.New("401 Unauthorized")),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_NotFound(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name           string
		err            error
		wantRepo       bool
		wantDiscussion bool
	}{
		{
			name:     "could not resolve repository",
			err:      errors.New("Could not resolve to a Repository with the name 'octocat/missing'."),
			wantRepo: true,
		},
		{
			name:           "could not resolve discussion",
			err:            errors.New("Could not resolve to a Discussion with the number of 42."),
			wantDiscussion: true,
		},
		{
			name:           "stale node id",
			err:            errors.New("Could not resolve to a node with the global id of 'D_kwDOabc'"),
			wantDiscussion: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("internal server error"),
		},
		{
			name: "nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRepoNotFoundError(tt.err); got != tt.wantRepo {
				t.Errorf("IsRepoNotFoundError() = %v, want %v", got, tt.wantRepo)
			}
			if got := inspector.IsDiscussionNotFoundError(tt.err); got != tt.wantDiscussion {
				t.Errorf("IsDiscussionNotFoundError() = %v, want %v", got, tt.wantDiscussion)
			}
		})
	}
}

func TestGitHubErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "rate limit exceeded",
			err:  errors.New("API rate limit exceeded"),
			want: true,
		},
		{
			name: "429 too many requests",
			err:  errors.New("429 Too Many Requests"),
			want: true,
		},
		{
			name: "not a rate limit error",
			err:  errors.New("timeout occurred"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:443: connection refused"),
			want: true,
		},
		{
			name: "no such host",
			err:  errors.New("dial tcp: lookup api.github.com: no such host"),
			want: true,
		},
		{
			name: "typed net error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("boom")},
			want: true,
		},
		{
			name: "unexpected eof",
			err:  errors.New("Post \"https://api.github.com/graphql\": unexpected EOF"),
			want: true,
		},
		{
			name: "not a network error",
			err:  errors.New("invalid json response"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type authError struct{}

func (authError) Error() string     { return "custom auth error" }
func (authError) IsAuthError() bool { return true }

type goneError struct{}

func (goneError) Error() string         { return "gone" }
func (goneError) IsNotFoundError() bool { return true }

func TestGitHubErrorInspector_TypedChain(t *testing.T) {
	inspector := NewInspector()

	if !inspector.IsAuthError(fmt.Errorf("operation failed: %w", authError{})) {
		t.Error("expected wrapped typed auth error to be detected")
	}
	if !inspector.IsDiscussionNotFoundError(fmt.Errorf("add comment: %w", goneError{})) {
		t.Error("expected wrapped typed not-found error to be detected")
	}
}

// Messages as shurcooL/graphql reports them for the survey queries.
func TestGitHubErrorInspector_SurveyResponses(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "bad credentials on comment page",
			err:  errors.New(`non-200 OK status code: 401 Unauthorized body: "{\"message\":\"Bad credentials\"}\n"`),
			want: "auth",
		},
		{
			name: "secondary rate limit on mutation",
			err:  errors.New(`non-200 OK status code: 403 Forbidden body: "You have exceeded a secondary rate limit"`),
			want: "rate",
		},
		{
			name: "deleted discussion on mutation",
			err:  errors.New("Could not resolve to a node with the global id of 'D_kwDOTest0007'"),
			want: "discussion",
		},
		{
			name: "renamed repository",
			err:  errors.New("Could not resolve to a Repository with the name 'octocat/surveys'."),
			want: "repo",
		},
		{
			name: "bad gateway",
			err:  errors.New(`non-200 OK status code: 502 Bad Gateway body: "Bad Gateway"`),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			switch {
			case inspector.IsRateLimitError(tt.err):
				got = "rate"
			case inspector.IsAuthError(tt.err):
				got = "auth"
			case inspector.IsRepoNotFoundError(tt.err):
				got = "repo"
			case inspector.IsDiscussionNotFoundError(tt.err):
				got = "discussion"
			case inspector.IsNetworkError(tt.err):
				got = "network"
			}
			if got != tt.want {
				t.Errorf("classified as %q, want %q", got, tt.want)
			}
		})
	}
}
