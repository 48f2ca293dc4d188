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

package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Writer writes records as NDJSON. It is safe for concurrent use; records
// written concurrently each land on their own line.
type Writer struct {
	mu      sync.Mutex
	buf     *bufio.Writer
	encoder *json.Encoder
	count   int
	closed  bool

	// set for file writers
	file      *os.File
	finalPath string
}

// NewWriter creates a writer to w. Output is buffered until Close.
func NewWriter(w io.Writer) *Writer {
	return newWriter(w)
}

func newWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	encoder := json.NewEncoder(buf)
	// Free-text answers are written as typed, not as < escapes.
	encoder.SetEscapeHTML(false)
	return &Writer{
		buf:     buf,
		encoder: encoder,
	}
}

// NewFileWriter creates a writer to filename. The records are staged in a
// temporary file in the same directory and renamed over filename on Close.
func NewFileWriter(filename string) (*Writer, error) {
	dir := filepath.Dir(filename)
	file, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := newWriter(file)
	w.file = file
	w.finalPath = filename
	return w, nil
}

// Write writes a single record as one NDJSON line.
func (w *Writer) Write(record any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("write to closed output")
	}
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", w.count+1, err)
	}

	w.count++
	return nil
}

// WriteAll writes records to w in order, stopping at the first failure.
func WriteAll[T any](w RecordWriter, records []T) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes buffered output. File writers then move the staged file
// to its final name. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		w.discard()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if w.file == nil {
		return nil
	}

	if err := w.file.Close(); err != nil {
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(w.file.Name(), w.finalPath); err != nil {
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("failed to save output file: %w", err)
	}
	return nil
}

// Abort discards everything written. For file writers the destination is
// left untouched. Abort after Close is a no-op.
func (w *Writer) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.discard()
}

func (w *Writer) discard() {
	if w.file != nil {
		_ = w.file.Close()
		_ = os.Remove(w.file.Name())
	}
}
