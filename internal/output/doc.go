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

// Package output writes survey records as NDJSON (Newline Delimited JSON):
// one JSON document per line, in the order given.
//
// Writers to files stage their output in a temporary file next to the
// destination and move it into place on Close, so an interrupted export
// never leaves a truncated file behind. Abort discards the staged output.
//
// Example usage:
//
//	w, err := output.NewFileWriter("results.ndjson")
//	if err != nil {
//	    return err
//	}
//	if err := output.WriteAll(w, records); err != nil {
//	    w.Abort()
//	    return err
//	}
//	return w.Close()
package output
