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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-survey/internal/metadata"
	"github.com/sirseerhq/sirseer-survey/internal/output"
	"github.com/sirseerhq/sirseer-survey/pkg/survey"
	"github.com/sirseerhq/sirseer-survey/pkg/version"
)

func (a *app) newResultsCommand() *cobra.Command {
	var (
		outputFile   string
		metadataFile string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Fetch all survey results as NDJSON",
		Long: `Fetch every result stored in the discussion and write them as NDJSON,
one JSON document per line, in the order they were posted.

Nothing is written if any comment is not valid JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.env.timeout)
			defer cancel()

			return a.runResults(ctx, cmd, outputFile, metadataFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&metadataFile, "metadata-file", "", "Write fetch metadata JSON to this file")

	return cmd
}

func (a *app) runResults(ctx context.Context, cmd *cobra.Command, outputFile, metadataFile string) error {
	env := a.env
	tracker := metadata.New()

	store, err := a.newStore(env, survey.WithTracker(tracker))
	if err != nil {
		return err
	}

	start := time.Now()
	// Bodies are kept as stored so numbers keep every digit.
	records, err := survey.Results[json.RawMessage](ctx, store)
	if err != nil {
		return fmt.Errorf("failed to fetch results from %s: %w", store.Discussion(), err)
	}

	var writer output.RecordWriter
	if outputFile != "" {
		writer, err = output.NewFileWriter(outputFile)
		if err != nil {
			return err
		}
	} else {
		writer = output.NewWriter(cmd.OutOrStdout())
	}

	if err := output.WriteAll(writer, records); err != nil {
		writer.Abort()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if metadataFile != "" {
		meta := tracker.GenerateMetadata(version.Version, metadata.FetchParams{
			Owner:      env.storeConfig.Owner,
			Repository: env.storeConfig.Repo,
			Discussion: env.storeConfig.Discussion,
			PageSize:   env.storeConfig.PageSize,
		})
		if err := metadata.SaveMetadata(meta, metadataFile); err != nil {
			return err
		}
	}

	env.logger.Info().
		Str("discussion", store.Discussion().String()).
		Str("fetch_id", tracker.FetchID()).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("results written")

	return nil
}
