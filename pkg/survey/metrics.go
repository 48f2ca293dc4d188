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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_records_written_total",
		Help: "Total survey records appended to a discussion",
	})

	recordsReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_records_read_total",
		Help: "Total survey records decoded from discussion comments",
	})

	handleResolutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_handle_resolutions_total",
		Help: "Total discussion node ID lookups performed by stores",
	})
)
