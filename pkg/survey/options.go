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
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/sirseer-survey/internal/github"
	"github.com/sirseerhq/sirseer-survey/internal/metadata"
)

// Option configures a Store.
type Option func(*Store)

// WithClient replaces the GraphQL transport. Config.Token and
// Config.Endpoint are then only validated, not used.
func WithClient(client github.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithLogger sets the logger for store and pagination events.
// The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTracker records every collection's pages, comments and API calls.
func WithTracker(tracker *metadata.Tracker) Option {
	return func(s *Store) {
		s.tracker = tracker
	}
}

// WithTracerProvider sets the provider store spans are created from.
// The default is the global provider at the time New is called.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Store) {
		s.tracerProvider = tp
	}
}
