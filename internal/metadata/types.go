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

package metadata

import (
	"time"
)

// FetchMetadata is the audit record of a single collection of survey
// results: what was read, from where, and how many round trips it took.
type FetchMetadata struct {
	SurveyVersion string       `json:"survey_version"`
	MethodVersion string       `json:"method_version"`
	FetchID       string       `json:"fetch_id"`
	Parameters    FetchParams  `json:"parameters"`
	Results       FetchResults `json:"results"`
}

// FetchParams captures the discussion and page size a collection ran with.
type FetchParams struct {
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
	Discussion int    `json:"discussion"`
	PageSize   int    `json:"page_size"`
}

// FetchResults contains statistics about a completed collection. The
// comment dates are zero when the discussion had no comments.
type FetchResults struct {
	TotalComments int       `json:"total_comments"`
	Pages         int       `json:"pages"`
	OldestComment time.Time `json:"oldest_comment_date"`
	NewestComment time.Time `json:"newest_comment_date"`
	Duration      string    `json:"fetch_duration"`
	APICallCount  int       `json:"api_calls_made"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}
