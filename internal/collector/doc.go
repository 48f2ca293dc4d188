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

// Package collector walks the cursor-paginated comment list of a GitHub
// discussion and gathers every comment body in order.
//
// A collection starts with no cursor, requests one page at a time, and
// follows the end cursor for as long as GitHub reports another page.
// Pages are requested strictly one after another. The first failed page
// fails the whole collection; nothing collected before the failure is
// returned.
//
// Basic usage:
//
//	c := collector.New(client, collector.WithLogger(logger))
//	bodies, err := c.Collect(ctx, ref, 100)
//	if err != nil {
//	    return err
//	}
package collector
