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

package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/sirseer-survey/internal/collector"
	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/github"
	"github.com/sirseerhq/sirseer-survey/internal/metadata"
)

// DefaultEndpoint is GitHub's public GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

const tracerName = "github.com/sirseerhq/sirseer-survey/pkg/survey"

// Config names the discussion a Store reads and writes. Owner, Repo,
// Discussion and Token are required.
type Config struct {
	Owner      string
	Repo       string
	Discussion int
	Token      string

	// Endpoint is the GraphQL URL (default: DefaultEndpoint).
	Endpoint string

	// PageSize is the number of comments per read request, 1 to 100
	// (default: 100).
	PageSize int
}

// Store is a survey record store backed by one GitHub discussion.
// A Store is safe for concurrent use.
type Store struct {
	ref      github.DiscussionRef
	pageSize int

	client         github.Client
	collector      *collector.Collector
	logger         zerolog.Logger
	tracker        *metadata.Tracker
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	mu           sync.Mutex
	discussionID string
}

// New validates cfg and creates a Store. No request is made.
func New(cfg Config, opts ...Option) (*Store, error) {
	ref := github.DiscussionRef{Owner: cfg.Owner, Repo: cfg.Repo, Number: cfg.Discussion}
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: github token is required", ErrInvalidConfig)
	}
	if cfg.PageSize < 0 || cfg.PageSize > github.MaxPageSize {
		return nil, fmt.Errorf("%w: page size must be between 1 and %d, got: %d",
			ErrInvalidConfig, github.MaxPageSize, cfg.PageSize)
	}

	s := &Store{
		ref:      ref,
		pageSize: github.EffectivePageSize(cfg.PageSize),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = DefaultEndpoint
		}
		s.client = github.NewGraphQLClient(cfg.Token, endpoint)
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	s.tracer = s.tracerProvider.Tracer(tracerName)

	collectorOpts := []collector.Option{collector.WithLogger(s.logger)}
	if s.tracker != nil {
		collectorOpts = append(collectorOpts, collector.WithTracker(s.tracker))
	}
	s.collector = collector.New(s.client, collectorOpts...)

	return s, nil
}

// Discussion returns the discussion the store is bound to.
func (s *Store) Discussion() github.DiscussionRef {
	return s.ref
}

// DiscussionID returns the cached discussion node ID, if a write has
// resolved it yet.
func (s *Store) DiscussionID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discussionID, s.discussionID != ""
}

// GetResults fetches every comment of the discussion and decodes each body
// as JSON, in comment order. It re-reads the whole discussion on every call.
// If any body fails to decode, no records are returned.
func (s *Store) GetResults(ctx context.Context) ([]any, error) {
	return Results[any](ctx, s)
}

// Results is GetResults decoding each comment into a T.
func Results[T any](ctx context.Context, s *Store) ([]T, error) {
	ctx, span := s.tracer.Start(ctx, "survey.GetResults",
		trace.WithAttributes(attribute.String("survey.discussion", s.ref.String())))
	defer span.End()

	start := time.Now()
	bodies, err := s.collector.Collect(ctx, s.ref, s.pageSize)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}

	records := make([]T, 0, len(bodies))
	for i, body := range bodies {
		var record T
		if err := json.Unmarshal([]byte(body), &record); err != nil {
			err = fmt.Errorf("comment %d of %s is not a valid record: %w: %w", i+1, s.ref, ErrDecode, err)
			failSpan(span, err)
			return nil, err
		}
		records = append(records, record)
	}

	recordsReadTotal.Add(float64(len(records)))
	span.SetAttributes(attribute.Int("survey.records", len(records)))
	s.logger.Info().
		Str("discussion", s.ref.String()).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("results fetched")

	return records, nil
}

// Count returns the number of comments in the discussion without decoding
// them.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Count",
		trace.WithAttributes(attribute.String("survey.discussion", s.ref.String())))
	defer span.End()

	bodies, err := s.collector.Collect(ctx, s.ref, s.pageSize)
	if err != nil {
		failSpan(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int("survey.records", len(bodies)))
	return len(bodies), nil
}

// AddResult encodes record as JSON and appends it to the discussion as a
// new comment. The discussion node ID is looked up on the first write and
// cached for the lifetime of the Store; it is never looked up again.
//
// A record that cannot be encoded fails with ErrDecode before any request.
// If the write is rejected as not found while using a cached ID, the error
// wraps ErrStaleHandle as well as ErrTransport.
func (s *Store) AddResult(ctx context.Context, record any) (*github.AddedComment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.AddResult",
		trace.WithAttributes(attribute.String("survey.discussion", s.ref.String())))
	defer span.End()

	body, err := json.Marshal(record)
	if err != nil {
		err = fmt.Errorf("failed to encode record: %w: %w", ErrDecode, err)
		failSpan(span, err)
		return nil, err
	}

	discussionID, cached, err := s.handle(ctx)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("survey.discussion_id", discussionID),
		attribute.Bool("survey.handle_cached", cached),
	)

	added, err := s.client.AddComment(ctx, discussionID, string(body))
	if err != nil {
		if cached && errors.Is(err, surveyerrors.ErrDiscussionNotFound) {
			err = fmt.Errorf("cached discussion ID %s for %s no longer resolves: %w: %w",
				discussionID, s.ref, ErrStaleHandle, err)
		}
		failSpan(span, err)
		return nil, err
	}

	recordsWrittenTotal.Inc()
	s.logger.Info().
		Str("discussion", s.ref.String()).
		Str("url", added.URL).
		Msg("result added")

	return added, nil
}

// handle returns the discussion node ID, resolving it if no earlier call
// has. cached reports whether the ID came from an earlier call. The lock is
// not held during the lookup, so concurrent first writes may each resolve;
// the first stored ID wins.
func (s *Store) handle(ctx context.Context) (id string, cached bool, err error) {
	s.mu.Lock()
	id = s.discussionID
	s.mu.Unlock()
	if id != "" {
		return id, true, nil
	}

	handleResolutionsTotal.Inc()
	resolved, err := s.client.ResolveDiscussionID(ctx, s.ref)
	if err != nil {
		return "", false, err
	}
	if resolved == "" {
		return "", false, fmt.Errorf("empty node ID for discussion %s: %w: %w",
			s.ref, ErrTransport, surveyerrors.ErrMalformedResponse)
	}

	s.mu.Lock()
	if s.discussionID == "" {
		s.discussionID = resolved
		s.logger.Debug().
			Str("discussion", s.ref.String()).
			Str("discussion_id", resolved).
			Msg("discussion handle resolved")
	}
	id = s.discussionID
	s.mu.Unlock()

	return id, false, nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
