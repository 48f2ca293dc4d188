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

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/testutil"
)

func testRef(s *testutil.DiscussionServer) DiscussionRef {
	return DiscussionRef{Owner: s.Owner, Repo: s.Repo, Number: s.Number}
}

func TestNewGraphQLClient(t *testing.T) {
	client := NewGraphQLClient("test-token", "https://api.github.com/graphql")
	require.NotNil(t, client)

	// Verify it implements the Client interface
	var _ Client = client
}

func TestGraphQLClient_ResolveDiscussionID(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(ref *DiscussionRef)
		token      string
		wantID     string
		wantErrIs  error
		wantErrMsg string
	}{
		{
			name:   "successful lookup",
			token:  "test-token",
			wantID: "D_kwDOTest0007",
		},
		{
			name:      "repository not found",
			token:     "test-token",
			mutate:    func(ref *DiscussionRef) { ref.Repo = "missing" },
			wantErrIs: surveyerrors.ErrRepoNotFound,
		},
		{
			name:      "discussion not found",
			token:     "test-token",
			mutate:    func(ref *DiscussionRef) { ref.Number = 99 },
			wantErrIs: surveyerrors.ErrDiscussionNotFound,
		},
		{
			name:       "bad credentials",
			token:      "wrong-token",
			wantErrIs:  surveyerrors.ErrInvalidToken,
			wantErrMsg: "authentication failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewDiscussionServer(t)
			client := NewGraphQLClient(tt.token, server.Endpoint())

			ref := testRef(server)
			if tt.mutate != nil {
				tt.mutate(&ref)
			}

			id, err := client.ResolveDiscussionID(context.Background(), ref)
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.ErrorIs(t, err, surveyerrors.ErrTransport)
				if tt.wantErrMsg != "" {
					assert.Contains(t, err.Error(), tt.wantErrMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestGraphQLClient_FetchComments(t *testing.T) {
	bodies := []string{`{"a":1}`, `{"a":2}`, `{"a":3}`, `{"a":4}`, `{"a":5}`}

	t.Run("first page", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t, bodies...)
		client := NewGraphQLClient("test-token", server.Endpoint())

		page, err := client.FetchComments(context.Background(), testRef(server), FetchOptions{PageSize: 2})
		require.NoError(t, err)

		assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, page.Bodies())
		assert.True(t, page.HasNextPage)
		assert.Equal(t, "cursor:2", page.EndCursor)
		assert.Equal(t, "https://github.com/octocat/surveys/discussions/7#discussioncomment-1", page.Comments[0].URL)
		assert.False(t, page.Comments[0].CreatedAt.IsZero())

		require.Len(t, server.Requests, 1)
		vars := server.Requests[0].Variables
		assert.Nil(t, vars["after"])
		assert.EqualValues(t, 2, vars["first"])
		assert.EqualValues(t, 7, vars["number"])
		assert.Contains(t, server.Requests[0].Query, "comments(first: $first, after: $after)")
	})

	t.Run("last page after cursor", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t, bodies...)
		client := NewGraphQLClient("test-token", server.Endpoint())

		page, err := client.FetchComments(context.Background(), testRef(server), FetchOptions{PageSize: 2, After: "cursor:4"})
		require.NoError(t, err)

		assert.Equal(t, []string{`{"a":5}`}, page.Bodies())
		assert.False(t, page.HasNextPage)
		assert.Equal(t, "cursor:4", server.Requests[0].Variables["after"])
	})

	t.Run("empty discussion", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t)
		client := NewGraphQLClient("test-token", server.Endpoint())

		page, err := client.FetchComments(context.Background(), testRef(server), FetchOptions{})
		require.NoError(t, err)

		assert.Empty(t, page.Comments)
		assert.False(t, page.HasNextPage)
		assert.Empty(t, page.EndCursor)
		assert.EqualValues(t, DefaultPageSize, server.Requests[0].Variables["first"])
	})

	t.Run("page size is capped", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t, bodies...)
		client := NewGraphQLClient("test-token", server.Endpoint())

		_, err := client.FetchComments(context.Background(), testRef(server), FetchOptions{PageSize: 500})
		require.NoError(t, err)
		assert.EqualValues(t, MaxPageSize, server.Requests[0].Variables["first"])
	})

	t.Run("server error", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t, bodies...)
		server.FailRequest = 1
		client := NewGraphQLClient("test-token", server.Endpoint())

		_, err := client.FetchComments(context.Background(), testRef(server), FetchOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, surveyerrors.ErrTransport)
	})

	t.Run("discussion not found", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t, bodies...)
		client := NewGraphQLClient("test-token", server.Endpoint())

		ref := testRef(server)
		ref.Number = 8
		_, err := client.FetchComments(context.Background(), ref, FetchOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, surveyerrors.ErrDiscussionNotFound)
	})
}

func TestGraphQLClient_FetchComments_NullDiscussion(t *testing.T) {
	// A null discussion without an errors array must not look like an empty thread.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"repository": map[string]interface{}{
					"discussion": nil,
				},
			},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL+"/graphql")
	_, err := client.FetchComments(context.Background(), DiscussionRef{Owner: "o", Repo: "r", Number: 1}, FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, surveyerrors.ErrDiscussionNotFound)
	assert.ErrorIs(t, err, surveyerrors.ErrTransport)
}

func TestGraphQLClient_AddComment(t *testing.T) {
	t.Run("body is sent as a variable", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t)
		client := NewGraphQLClient("test-token", server.Endpoint())

		body := `{"quote":"she said \"hi\"","path":"C:\\temp","multi":"line1\nline2","emoji":"✓"}`
		before := promtestutil.ToFloat64(graphqlRequestsTotal.WithLabelValues(OpAddComment, outcomeOK))

		added, err := client.AddComment(context.Background(), server.DiscussionID, body)
		require.NoError(t, err)

		assert.Equal(t, "https://github.com/octocat/surveys/discussions/7#discussioncomment-1", added.URL)
		assert.Equal(t, "DC_kwDOTest0001", added.ID)
		assert.Equal(t, []string{body}, server.CommentBodies())

		req := server.Requests[0]
		assert.True(t, strings.HasPrefix(req.Query, "mutation"))
		assert.Contains(t, req.Query, "$input:AddDiscussionCommentInput!")
		assert.NotContains(t, req.Query, "she said")

		after := promtestutil.ToFloat64(graphqlRequestsTotal.WithLabelValues(OpAddComment, outcomeOK))
		assert.Equal(t, before+1, after)
	})

	t.Run("unknown discussion id", func(t *testing.T) {
		server := testutil.NewDiscussionServer(t)
		client := NewGraphQLClient("test-token", server.Endpoint())

		_, err := client.AddComment(context.Background(), "D_kwDOGone", `{}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, surveyerrors.ErrDiscussionNotFound)
		assert.ErrorIs(t, err, surveyerrors.ErrTransport)
		assert.Empty(t, server.CommentBodies())
	})
}

func TestGraphQLClient_ContextCanceled(t *testing.T) {
	server := testutil.NewDiscussionServer(t, `{}`)
	client := NewGraphQLClient("test-token", server.Endpoint())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchComments(ctx, testRef(server), FetchOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, err, surveyerrors.ErrTransport)
	assert.NotErrorIs(t, err, surveyerrors.ErrNetworkFailure)
}

func TestAuthTransport_Headers(t *testing.T) {
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	rt := &authTransport{token: "abc", base: http.DefaultTransport}
	req, err := http.NewRequest(http.MethodPost, server.URL, nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.True(t, strings.HasPrefix(gotAgent, "sirseer-survey/"))
	assert.Empty(t, req.Header.Get("Authorization"), "original request must not be modified")
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: nopCloser{strings.NewReader(strings.Repeat("x", 64))},
		limit:      16,
	}

	buf := make([]byte, 64)
	n, err := lr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	_, err = lr.Read(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded limit")
}

type nopCloser struct{ *strings.Reader }

func (nopCloser) Close() error { return nil }
