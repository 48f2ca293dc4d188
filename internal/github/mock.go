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
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
)

// MockDiscussionID is the node ID the mock discussion answers to by default.
const MockDiscussionID = "D_kwDOMock0001"

// MockClient is an in-memory discussion implementing the GitHub Client
// interface for testing. Comments added through AddComment are visible to
// later FetchComments calls, so it behaves like a real thread.
type MockClient struct {
	mu sync.Mutex

	// Comments held by the discussion, oldest first
	Comments []Comment

	// DiscussionID is the node ID returned by ResolveDiscussionID and the
	// only ID AddComment accepts. Changing it simulates a deleted or
	// renumbered discussion.
	DiscussionID string

	// Error to return from every call
	Error error

	// FailOnPage makes the Nth FetchComments call (1-based) of each walk fail
	// with FetchError. A walk starts with an empty cursor.
	FailOnPage int
	FetchError error

	// ResolveError and AddError override single operations
	ResolveError error
	AddError     error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	ResolveCalls int
	FetchCalls   int
	AddCalls     int
	LastRef      DiscussionRef
	LastOpts     FetchOptions
	LastBody     string

	pageInWalk int
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Comments:     generateTestComments(),
		DiscussionID: MockDiscussionID,
	}
}

// ResolveDiscussionID implements the Client interface
func (m *MockClient) ResolveDiscussionID(ctx context.Context, ref DiscussionRef) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResolveCalls++
	m.LastRef = ref

	if err := m.commonError(ctx, ref); err != nil {
		return "", err
	}
	if m.ResolveError != nil {
		return "", m.ResolveError
	}

	return m.DiscussionID, nil
}

// FetchComments implements the Client interface. Cursors encode the offset
// of the next comment, matching GitHub's opaque-but-stable contract.
func (m *MockClient) FetchComments(ctx context.Context, ref DiscussionRef, opts FetchOptions) (*CommentPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls++
	m.LastRef = ref
	m.LastOpts = opts

	if opts.After == "" {
		m.pageInWalk = 0
	}
	m.pageInWalk++

	if err := m.commonError(ctx, ref); err != nil {
		return nil, err
	}
	if m.FailOnPage > 0 && m.pageInWalk == m.FailOnPage {
		if m.FetchError != nil {
			return nil, m.FetchError
		}
		return nil, fmt.Errorf("page %d failed: %w: %w", m.pageInWalk,
			surveyerrors.ErrTransport, surveyerrors.ErrNetworkFailure)
	}

	offset := 0
	if opts.After != "" {
		parsed, err := parseMockCursor(opts.After)
		if err != nil || parsed > len(m.Comments) {
			return nil, fmt.Errorf("invalid cursor %q: %w", opts.After, surveyerrors.ErrTransport)
		}
		offset = parsed
	}

	end := offset + EffectivePageSize(opts.PageSize)
	if end > len(m.Comments) {
		end = len(m.Comments)
	}

	page := &CommentPage{
		Comments:    append([]Comment(nil), m.Comments[offset:end]...),
		HasNextPage: end < len(m.Comments),
	}
	// GitHub reports a null end cursor for an empty page.
	if end > offset {
		page.EndCursor = mockCursor(end)
	}

	return page, nil
}

// AddComment implements the Client interface
func (m *MockClient) AddComment(ctx context.Context, discussionID, body string) (*AddedComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddCalls++
	m.LastBody = body

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrNetworkFailure)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if m.AddError != nil {
		return nil, m.AddError
	}
	if discussionID != m.DiscussionID {
		return nil, fmt.Errorf("could not resolve to a node with the global id of '%s': %w: %w",
			discussionID, surveyerrors.ErrTransport, surveyerrors.ErrDiscussionNotFound)
	}

	n := len(m.Comments) + 1
	comment := Comment{
		ID:        fmt.Sprintf("DC_kwDOMock%04d", n),
		Body:      body,
		URL:       fmt.Sprintf("https://github.com/test/repo/discussions/1#discussioncomment-%d", n),
		CreatedAt: time.Now().UTC(),
	}
	m.Comments = append(m.Comments, comment)

	return &AddedComment{ID: comment.ID, URL: comment.URL}, nil
}

// Bodies returns the bodies of every comment currently in the discussion.
func (m *MockClient) Bodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	bodies := make([]string, 0, len(m.Comments))
	for _, c := range m.Comments {
		bodies = append(bodies, c.Body)
	}
	return bodies
}

func (m *MockClient) commonError(ctx context.Context, ref DiscussionRef) error {
	// Check for context cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrNetworkFailure)
	}

	if ref.Owner == "nonexistent" {
		return fmt.Errorf("repository not found: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrRepoNotFound)
	}

	if m.ShouldFailNotFound {
		return fmt.Errorf("discussion not found: %w: %w", surveyerrors.ErrTransport, surveyerrors.ErrDiscussionNotFound)
	}

	return m.Error
}

func mockCursor(offset int) string {
	return "cursor:" + strconv.Itoa(offset)
}

func parseMockCursor(cursor string) (int, error) {
	raw, ok := strings.CutPrefix(cursor, "cursor:")
	if !ok {
		return 0, fmt.Errorf("unknown cursor format")
	}
	return strconv.Atoi(raw)
}

// generateTestComments creates sample survey results for testing
func generateTestComments() []Comment {
	now := time.Now().UTC()

	return []Comment{
		{
			ID:        "DC_kwDOMock0001",
			Body:      `{"respondent":"alice","score":5,"answers":["yes","often"]}`,
			URL:       "https://github.com/test/repo/discussions/1#discussioncomment-1",
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID:        "DC_kwDOMock0002",
			Body:      `{"respondent":"bob","score":3,"answers":["no","rarely"]}`,
			URL:       "https://github.com/test/repo/discussions/1#discussioncomment-2",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:        "DC_kwDOMock0003",
			Body:      `{"respondent":"charlie","score":4,"answers":["yes","sometimes"]}`,
			URL:       "https://github.com/test/repo/discussions/1#discussioncomment-3",
			CreatedAt: now,
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithCommentBodies replaces the discussion's comments with the given bodies
func WithCommentBodies(bodies ...string) MockClientOption {
	return func(m *MockClient) {
		m.Comments = make([]Comment, 0, len(bodies))
		for i, body := range bodies {
			m.Comments = append(m.Comments, Comment{
				ID:   fmt.Sprintf("DC_kwDOMock%04d", i+1),
				Body: body,
				URL:  fmt.Sprintf("https://github.com/test/repo/discussions/1#discussioncomment-%d", i+1),
			})
		}
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithPageFailure makes the given page of every walk fail with err.
// A nil err fails with a network error.
func WithPageFailure(page int, err error) MockClientOption {
	return func(m *MockClient) {
		m.FailOnPage = page
		m.FetchError = err
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
