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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/giterror"
	"github.com/sirseerhq/sirseer-survey/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseBytes caps a single GraphQL response body.
const maxResponseBytes = 10 * 1024 * 1024

// GraphQLClient implements the GitHub Client interface using GraphQL API.
// Each method performs exactly one request; pagination, caching of the
// discussion ID and retries are left to callers.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - OpenTelemetry instrumentation of every HTTP round trip
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(&authTransport{
			token: token,
			base:  transport,
		}),
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// ResolveDiscussionID looks up the node ID of the discussion named by ref.
// A null discussion in an otherwise successful response is reported as
// ErrDiscussionNotFound.
func (c *GraphQLClient) ResolveDiscussionID(ctx context.Context, ref DiscussionRef) (string, error) {
	start := time.Now()

	var query struct {
		Repository *struct {
			Discussion *struct {
				ID graphql.String
			} `graphql:"discussion(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(ref.Owner),
		"repo":   graphql.String(ref.Repo),
		"number": graphql.Int(int32(ref.Number)), // #nosec G115 - discussion numbers fit in int32
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		outcome, mapped := c.mapError(err, ref.String())
		observeRequest(OpResolveDiscussion, outcome, start)
		return "", fmt.Errorf("failed to resolve discussion %s: %w", ref, mapped)
	}

	if query.Repository == nil {
		observeRequest(OpResolveDiscussion, outcomeNotFound, start)
		return "", fmt.Errorf("repository '%s/%s' not found: %w: %w", ref.Owner, ref.Repo,
			surveyerrors.ErrTransport, surveyerrors.ErrRepoNotFound)
	}
	if query.Repository.Discussion == nil || query.Repository.Discussion.ID == "" {
		observeRequest(OpResolveDiscussion, outcomeNotFound, start)
		return "", fmt.Errorf("discussion %s not found: %w: %w", ref,
			surveyerrors.ErrTransport, surveyerrors.ErrDiscussionNotFound)
	}

	observeRequest(OpResolveDiscussion, outcomeOK, start)
	return string(query.Repository.Discussion.ID), nil
}

// FetchComments fetches a page of comments from the discussion named by ref,
// oldest first. It supports cursor-based pagination via the opts.After
// parameter and configurable page sizes through opts.PageSize.
func (c *GraphQLClient) FetchComments(ctx context.Context, ref DiscussionRef, opts FetchOptions) (*CommentPage, error) {
	start := time.Now()
	pageSize := EffectivePageSize(opts.PageSize)

	var query struct {
		Repository *struct {
			Discussion *struct {
				Comments struct {
					PageInfo struct {
						HasNextPage graphql.Boolean
						EndCursor   graphql.String
					}
					Nodes []struct {
						ID        graphql.String
						Body      graphql.String
						URL       graphql.String
						CreatedAt time.Time
					}
				} `graphql:"comments(first: $first, after: $after)"`
			} `graphql:"discussion(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(ref.Owner),
		"repo":   graphql.String(ref.Repo),
		"number": graphql.Int(int32(ref.Number)), // #nosec G115 - discussion numbers fit in int32
		"first":  graphql.Int(int32(pageSize)),   // #nosec G115 - pageSize is capped at 100
		"after":  (*graphql.String)(nil),
	}
	if opts.After != "" {
		after := graphql.String(opts.After)
		variables["after"] = &after
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		outcome, mapped := c.mapError(err, ref.String())
		observeRequest(OpFetchComments, outcome, start)
		return nil, fmt.Errorf("failed to fetch comments of %s: %w", ref, mapped)
	}

	if query.Repository == nil {
		observeRequest(OpFetchComments, outcomeNotFound, start)
		return nil, fmt.Errorf("repository '%s/%s' not found: %w: %w", ref.Owner, ref.Repo,
			surveyerrors.ErrTransport, surveyerrors.ErrRepoNotFound)
	}
	if query.Repository.Discussion == nil {
		observeRequest(OpFetchComments, outcomeNotFound, start)
		return nil, fmt.Errorf("discussion %s not found: %w: %w", ref,
			surveyerrors.ErrTransport, surveyerrors.ErrDiscussionNotFound)
	}

	comments := query.Repository.Discussion.Comments
	page := &CommentPage{
		HasNextPage: bool(comments.PageInfo.HasNextPage),
		EndCursor:   string(comments.PageInfo.EndCursor),
		Comments:    make([]Comment, 0, len(comments.Nodes)),
	}
	for _, node := range comments.Nodes {
		page.Comments = append(page.Comments, Comment{
			ID:        string(node.ID),
			Body:      string(node.Body),
			URL:       string(node.URL),
			CreatedAt: node.CreatedAt,
		})
	}

	observeRequest(OpFetchComments, outcomeOK, start)
	return page, nil
}

// AddComment appends a comment to the discussion with the given node ID.
// The body travels as a variable inside the mutation input, so it needs
// no escaping.
func (c *GraphQLClient) AddComment(ctx context.Context, discussionID, body string) (*AddedComment, error) {
	start := time.Now()

	var mutation struct {
		AddDiscussionComment struct {
			Comment struct {
				ID  graphql.String
				URL graphql.String
			}
		} `graphql:"addDiscussionComment(input: $input)"`
	}

	variables := map[string]interface{}{
		"input": AddDiscussionCommentInput{
			DiscussionID: discussionID,
			Body:         body,
		},
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		outcome, mapped := c.mapError(err, discussionID)
		observeRequest(OpAddComment, outcome, start)
		return nil, fmt.Errorf("failed to add comment to discussion %s: %w", discussionID, mapped)
	}

	comment := mutation.AddDiscussionComment.Comment
	if comment.URL == "" {
		observeRequest(OpAddComment, outcomeMalformed, start)
		return nil, fmt.Errorf("addDiscussionComment returned no comment: %w: %w",
			surveyerrors.ErrTransport, surveyerrors.ErrMalformedResponse)
	}

	observeRequest(OpAddComment, outcomeOK, start)
	return &AddedComment{
		ID:  string(comment.ID),
		URL: string(comment.URL),
	}, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages.
// Every mapped error wraps ErrTransport alongside its classification. The
// first return value is the metrics outcome label.
func (c *GraphQLClient) mapError(err error, target string) (string, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeCanceled, fmt.Errorf("%w: %w", surveyerrors.ErrTransport, err)
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return outcomeRateLimit, fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w: %w",
			surveyerrors.ErrTransport, surveyerrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return outcomeAuth, fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w: %w",
			surveyerrors.ErrTransport, surveyerrors.ErrInvalidToken)
	}

	if c.inspector.IsRepoNotFoundError(err) {
		return outcomeNotFound, fmt.Errorf("repository for %s not found. Please check the repository name and your access permissions: %w: %w",
			target, surveyerrors.ErrTransport, surveyerrors.ErrRepoNotFound)
	}

	if c.inspector.IsDiscussionNotFoundError(err) {
		return outcomeNotFound, fmt.Errorf("discussion %s not found: %w: %w",
			target, surveyerrors.ErrTransport, surveyerrors.ErrDiscussionNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return outcomeNetwork, fmt.Errorf("network error connecting to GitHub API (%v): %w: %w",
			err, surveyerrors.ErrTransport, surveyerrors.ErrNetworkFailure)
	}

	return outcomeOtherFailure, fmt.Errorf("%w: %w", surveyerrors.ErrTransport, err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("sirseer-survey/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}
