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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTracker_RecordComment(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		created   []time.Time
		wantStats CommentStats
	}{
		{
			name:      "no comments",
			wantStats: CommentStats{},
		},
		{
			name:    "single comment",
			created: []time.Time{day(3)},
			wantStats: CommentStats{
				TotalComments: 1,
				Oldest:        day(3),
				Newest:        day(3),
			},
		},
		{
			name:    "out of order dates",
			created: []time.Time{day(5), day(2), day(9), day(4)},
			wantStats: CommentStats{
				TotalComments: 4,
				Oldest:        day(2),
				Newest:        day(9),
			},
		},
		{
			name:    "zero dates are counted but not ranged",
			created: []time.Time{{}, day(7), {}},
			wantStats: CommentStats{
				TotalComments: 3,
				Oldest:        day(7),
				Newest:        day(7),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := New()
			for _, c := range tt.created {
				tracker.RecordComment(c)
			}

			got := tracker.Stats()
			if got.TotalComments != tt.wantStats.TotalComments {
				t.Errorf("TotalComments = %d, want %d", got.TotalComments, tt.wantStats.TotalComments)
			}
			if !got.Oldest.Equal(tt.wantStats.Oldest) {
				t.Errorf("Oldest = %v, want %v", got.Oldest, tt.wantStats.Oldest)
			}
			if !got.Newest.Equal(tt.wantStats.Newest) {
				t.Errorf("Newest = %v, want %v", got.Newest, tt.wantStats.Newest)
			}
		})
	}
}

func TestTracker_ConcurrentUpdates(t *testing.T) {
	tracker := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.IncrementAPICall()
			tracker.RecordPage()
			tracker.RecordComment(time.Now())
		}()
	}
	wg.Wait()

	meta := tracker.GenerateMetadata("test", FetchParams{})
	if meta.Results.APICallCount != 50 {
		t.Errorf("APICallCount = %d, want 50", meta.Results.APICallCount)
	}
	if meta.Results.Pages != 50 {
		t.Errorf("Pages = %d, want 50", meta.Results.Pages)
	}
	if meta.Results.TotalComments != 50 {
		t.Errorf("TotalComments = %d, want 50", meta.Results.TotalComments)
	}
}

func TestTracker_GenerateMetadata(t *testing.T) {
	tracker := New()

	tracker.IncrementAPICall()
	tracker.IncrementAPICall()
	tracker.RecordPage()
	tracker.RecordPage()
	tracker.RecordComment(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	// Small delay to ensure duration > 0
	time.Sleep(10 * time.Millisecond)

	params := FetchParams{
		Owner:      "octocat",
		Repository: "surveys",
		Discussion: 7,
		PageSize:   50,
	}

	metadata := tracker.GenerateMetadata("v1.0.0", params)

	if metadata.SurveyVersion != "v1.0.0" {
		t.Errorf("SurveyVersion = %s, want v1.0.0", metadata.SurveyVersion)
	}
	if metadata.MethodVersion != MethodVersion {
		t.Errorf("MethodVersion = %s, want %s", metadata.MethodVersion, MethodVersion)
	}
	if _, err := uuid.Parse(metadata.FetchID); err != nil {
		t.Errorf("FetchID %q is not a UUID: %v", metadata.FetchID, err)
	}
	if metadata.FetchID != tracker.FetchID() {
		t.Errorf("FetchID = %s, want tracker ID %s", metadata.FetchID, tracker.FetchID())
	}
	if metadata.Parameters != params {
		t.Errorf("Parameters = %+v, want %+v", metadata.Parameters, params)
	}
	if metadata.Results.APICallCount != 2 {
		t.Errorf("APICallCount = %d, want 2", metadata.Results.APICallCount)
	}
	if metadata.Results.Pages != 2 {
		t.Errorf("Pages = %d, want 2", metadata.Results.Pages)
	}
	if metadata.Results.TotalComments != 1 {
		t.Errorf("TotalComments = %d, want 1", metadata.Results.TotalComments)
	}
	if metadata.Results.Duration == "" || metadata.Results.Duration == "0s" {
		t.Errorf("Duration should be non-zero, got %s", metadata.Results.Duration)
	}
	if metadata.Results.CompletedAt.Before(metadata.Results.StartedAt) {
		t.Error("CompletedAt should not be before StartedAt")
	}
}

func TestTracker_UniqueFetchIDs(t *testing.T) {
	a, b := New(), New()
	if a.FetchID() == b.FetchID() {
		t.Errorf("expected distinct fetch IDs, both were %s", a.FetchID())
	}
}

func TestSaveMetadata(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "fetch-metadata.json")

	metadata := &FetchMetadata{
		SurveyVersion: "v1.2.3",
		MethodVersion: MethodVersion,
		FetchID:       "6f1c2a4e-0000-4000-8000-000000000001",
		Parameters: FetchParams{
			Owner:      "sancarn",
			Repository: "vba-articles",
			Discussion: 5,
			PageSize:   100,
		},
		Results: FetchResults{
			TotalComments: 230,
			Pages:         3,
			Duration:      "2.5s",
			APICallCount:  3,
			StartedAt:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			CompletedAt:   time.Date(2024, 1, 1, 12, 0, 2, 500, time.UTC),
		},
	}

	if err := SaveMetadata(metadata, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file should be gone, stat err = %v", err)
	}

	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}

	if loaded.SurveyVersion != metadata.SurveyVersion {
		t.Errorf("SurveyVersion = %s, want %s", loaded.SurveyVersion, metadata.SurveyVersion)
	}
	if loaded.Results.TotalComments != metadata.Results.TotalComments {
		t.Errorf("TotalComments = %d, want %d", loaded.Results.TotalComments, metadata.Results.TotalComments)
	}
	if loaded.Parameters != metadata.Parameters {
		t.Errorf("Parameters = %+v, want %+v", loaded.Parameters, metadata.Parameters)
	}
}

func TestLoadMetadata_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadMetadata(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadMetadata(bad)
	if err == nil || !strings.Contains(err.Error(), "failed to parse metadata") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestWriteMetadataToWriter(t *testing.T) {
	metadata := &FetchMetadata{
		SurveyVersion: "v1.0.0",
		MethodVersion: MethodVersion,
		FetchID:       "test-123",
		Parameters: FetchParams{
			Owner:      "test",
			Repository: "repo",
			Discussion: 1,
		},
	}

	var buf bytes.Buffer
	if err := WriteMetadataToWriter(metadata, &buf); err != nil {
		t.Fatalf("WriteMetadataToWriter failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "  ") {
		t.Error("Output should be indented")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}
	for _, key := range []string{"survey_version", "method_version", "fetch_id", "parameters", "results"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, output)
		}
	}
}
