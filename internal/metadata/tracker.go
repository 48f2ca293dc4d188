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

// Package metadata records statistics about a collection of survey results:
// the number of comments and pages read, GraphQL calls made, the date range
// of the comments, and how long it took. The record can be written next to
// the exported results for auditing and troubleshooting.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MethodVersion identifies the comment query shape used for collection
	MethodVersion = "graphql-discussion-comments-v1"
)

// Tracker collects statistics during a collection and generates metadata.
// Create one per collection. It is safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	fetchID      string
	startTime    time.Time
	apiCallCount int
	stats        CommentStats
}

// CommentStats holds running statistics about the comments seen so far.
type CommentStats struct {
	TotalComments int       // Comments read across all pages
	Pages         int       // Pages read
	Oldest        time.Time // Earliest comment creation date
	Newest        time.Time // Latest comment creation date
}

// New creates a tracker with a fresh fetch ID and the current time as its start.
func New() *Tracker {
	return &Tracker{
		fetchID:   uuid.NewString(),
		startTime: time.Now(),
	}
}

// FetchID returns the unique ID assigned to this collection.
func (t *Tracker) FetchID() string {
	return t.fetchID
}

// IncrementAPICall records that a GraphQL request completed.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCallCount++
}

// RecordPage records one page of comments.
func (t *Tracker) RecordPage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Pages++
}

// RecordComment updates the running statistics with one comment. A zero
// creation date counts the comment without touching the date range.
func (t *Tracker) RecordComment(createdAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TotalComments++

	if createdAt.IsZero() {
		return
	}
	if t.stats.Oldest.IsZero() || createdAt.Before(t.stats.Oldest) {
		t.stats.Oldest = createdAt
	}
	if createdAt.After(t.stats.Newest) {
		t.stats.Newest = createdAt
	}
}

// Stats returns a snapshot of the running statistics.
func (t *Tracker) Stats() CommentStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// GenerateMetadata creates the FetchMetadata record for the collection.
// Call it once the collection has finished.
func (t *Tracker) GenerateMetadata(surveyVersion string, params FetchParams) *FetchMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	return &FetchMetadata{
		SurveyVersion: surveyVersion,
		MethodVersion: MethodVersion,
		FetchID:       t.fetchID,
		Parameters:    params,
		Results: FetchResults{
			TotalComments: t.stats.TotalComments,
			Pages:         t.stats.Pages,
			OldestComment: t.stats.Oldest,
			NewestComment: t.stats.Newest,
			Duration:      completedAt.Sub(t.startTime).String(),
			APICallCount:  t.apiCallCount,
			StartedAt:     t.startTime,
			CompletedAt:   completedAt,
		},
	}
}

// SaveMetadata writes a FetchMetadata record as indented JSON to path.
// The file is written to a temporary name and renamed into place so a
// reader never sees a partial record.
func SaveMetadata(metadata *FetchMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadMetadata reads a record previously written by SaveMetadata.
func LoadMetadata(path string) (*FetchMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata FetchMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
