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
	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
)

// Errors returned by the Store. Test for them with errors.Is.
var (
	// ErrTransport wraps every failed GraphQL round trip.
	ErrTransport = surveyerrors.ErrTransport

	// ErrDecode is returned when a comment body is not valid JSON or a
	// record cannot be encoded.
	ErrDecode = surveyerrors.ErrDecode

	// ErrStaleHandle is returned together with ErrTransport when a write
	// using a previously cached discussion ID reports the discussion as
	// not found.
	ErrStaleHandle = surveyerrors.ErrStaleHandle

	// ErrInvalidConfig is returned by New for missing or invalid settings.
	ErrInvalidConfig = surveyerrors.ErrInvalidConfig
)
