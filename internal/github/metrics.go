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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels for request metrics.
const (
	OpResolveDiscussion = "resolve_discussion"
	OpFetchComments     = "fetch_comments"
	OpAddComment        = "add_comment"
)

// Outcome labels for request metrics.
const (
	outcomeOK           = "ok"
	outcomeAuth         = "auth"
	outcomeNotFound     = "not_found"
	outcomeRateLimit    = "rate_limit"
	outcomeNetwork      = "network"
	outcomeCanceled     = "canceled"
	outcomeMalformed    = "malformed"
	outcomeOtherFailure = "error"
)

// Prometheus metrics for GraphQL round trips.
var (
	graphqlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_graphql_requests_total",
		Help: "Total GraphQL requests by operation and outcome",
	}, []string{"operation", "outcome"})

	graphqlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "survey_graphql_request_duration_seconds",
		Help:    "GraphQL request duration in seconds by operation",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})
)

func observeRequest(operation, outcome string, start time.Time) {
	graphqlRequestsTotal.WithLabelValues(operation, outcome).Inc()
	graphqlRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
