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

package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/github"
	"github.com/sirseerhq/sirseer-survey/internal/metadata"
)

var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_pages_fetched_total",
		Help: "Total comment pages fetched while collecting survey results",
	})

	commentsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_comments_collected_total",
		Help: "Total comment bodies returned by completed collections",
	})
)

// Collector gathers all comment bodies of a discussion through a github.Client.
type Collector struct {
	client  github.Client
	logger  zerolog.Logger
	tracker *metadata.Tracker
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for per-page debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithTracker records pages, comments and API calls into tracker.
func WithTracker(tracker *metadata.Tracker) Option {
	return func(c *Collector) {
		c.tracker = tracker
	}
}

// New creates a Collector over client. Logging is disabled unless
// WithLogger is given.
func New(client github.Client, opts ...Option) *Collector {
	c := &Collector{
		client: client,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the bodies of every comment in the discussion named by
// ref, oldest first. pageSize is the number of comments requested per
// round trip; values outside 1..100 are clamped by github.EffectivePageSize.
//
// An empty discussion yields an empty, non-nil slice after one request.
// Any failed page, a page that claims a successor without a cursor, or a
// cancelled ctx fails the collection with an error wrapping ErrTransport.
func (c *Collector) Collect(ctx context.Context, ref github.DiscussionRef, pageSize int) ([]string, error) {
	var (
		bodies    = []string{}
		cursor    = ""
		hasMore   = true
		pageNum   = 0
		startTime = time.Now()
	)
	pageSize = github.EffectivePageSize(pageSize)

	for hasMore {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collection of %s stopped after %d pages: %w: %w",
				ref, pageNum, surveyerrors.ErrTransport, err)
		}

		pageNum++
		page, err := c.client.FetchComments(ctx, ref, github.FetchOptions{
			PageSize: pageSize,
			After:    cursor,
		})
		if err != nil {
			c.logger.Debug().
				Str("discussion", ref.String()).
				Int("page", pageNum).
				Err(err).
				Msg("comment page failed")
			return nil, fmt.Errorf("failed to fetch comment page %d of %s: %w", pageNum, ref, err)
		}

		pagesFetchedTotal.Inc()
		if c.tracker != nil {
			c.tracker.IncrementAPICall()
			c.tracker.RecordPage()
		}

		bodies = append(bodies, page.Bodies()...)
		if c.tracker != nil {
			for _, comment := range page.Comments {
				c.tracker.RecordComment(comment.CreatedAt)
			}
		}

		c.logger.Debug().
			Str("discussion", ref.String()).
			Int("page", pageNum).
			Int("items", len(page.Comments)).
			Str("cursor", page.EndCursor).
			Bool("has_next", page.HasNextPage).
			Msg("comment page fetched")

		if page.HasNextPage && page.EndCursor == "" {
			return nil, fmt.Errorf("page %d of %s reports more comments but no end cursor: %w: %w",
				pageNum, ref, surveyerrors.ErrTransport, surveyerrors.ErrMalformedResponse)
		}

		cursor = page.EndCursor
		hasMore = page.HasNextPage
	}

	commentsCollectedTotal.Add(float64(len(bodies)))
	c.logger.Debug().
		Str("discussion", ref.String()).
		Int("pages", pageNum).
		Int("items", len(bodies)).
		Dur("duration", time.Since(startTime)).
		Msg("collection complete")

	return bodies, nil
}
