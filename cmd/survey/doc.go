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

// Package main implements the sirseer-survey command-line interface.
// It reads and appends survey results stored as JSON comments on a GitHub
// Discussion.
//
// Usage:
//
//	sirseer-survey results [--output results.ndjson] [--metadata-file meta.json]
//	sirseer-survey add '{"score":4}'
//	echo '{"score":4}' | sirseer-survey add -
//	sirseer-survey count
//
// The discussion is chosen with --repo and --discussion, with --survey
// naming an entry of the config file, or with the survey section of the
// config file.
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-survey results --repo sancarn/vba-articles --discussion 5
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
//   - 4: A record is not valid JSON
package main
