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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
)

// maxRecordBytes bounds a record read from stdin. GitHub rejects comment
// bodies longer than 65536 characters.
const maxRecordBytes = 256 * 1024

func (a *app) newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [json|-]",
		Short: "Append one survey result",
		Long: `Append one survey result to the discussion as a new comment.

The result is a JSON document given as the argument, or read from stdin
when the argument is "-" or omitted. The URL of the new comment is printed.`,
		Example: `  sirseer-survey add '{"respondent":"alice","score":5}'
  jq -c '.[0]' answers.json | sirseer-survey add -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.env.timeout)
			defer cancel()

			raw := "-"
			if len(args) == 1 {
				raw = args[0]
			}
			if raw == "-" {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxRecordBytes+1))
				if err != nil {
					return fmt.Errorf("failed to read record from stdin: %w", err)
				}
				if len(data) > maxRecordBytes {
					return fmt.Errorf("record on stdin exceeds %d bytes: %w", maxRecordBytes, surveyerrors.ErrDecode)
				}
				raw = string(data)
			}

			return a.runAdd(ctx, cmd, raw)
		},
	}

	return cmd
}

func (a *app) runAdd(ctx context.Context, cmd *cobra.Command, raw string) error {
	record, err := parseRecord(raw)
	if err != nil {
		return err
	}

	store, err := a.newStore(a.env)
	if err != nil {
		return err
	}

	added, err := store.AddResult(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to add result to %s: %w", store.Discussion(), err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), added.URL)
	return nil
}

// parseRecord decodes exactly one JSON document. Numbers keep their
// original text so large integers survive re-encoding.
func parseRecord(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("record is empty: %w", surveyerrors.ErrDecode)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var record any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("record is not valid JSON: %w: %w", surveyerrors.ErrDecode, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("record must be a single JSON document: %w", surveyerrors.ErrDecode)
	}

	return record, nil
}
