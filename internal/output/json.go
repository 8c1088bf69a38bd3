// internal/output/json.go
package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// JSONWriter collects records and writes them as one indented JSON array
// when closed. Buffering keeps the output a valid document even though
// records arrive in batches.
type JSONWriter struct {
	path    string
	mu      sync.Mutex
	records []types.MovieRecord
	closed  bool
}

// NewJSONWriter creates a JSON file writer.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if path == "" {
		return nil, utils.NewError(utils.ErrCodeOutputFailed, "json writer needs a file path")
	}
	return &JSONWriter{path: path}, nil
}

// Write buffers records for the final flush.
func (w *JSONWriter) Write(_ context.Context, records []types.MovieRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return utils.NewError(utils.ErrCodeOutputFailed, "write after close")
	}
	w.records = append(w.records, records...)
	return nil
}

// Close writes the buffered records to the file.
func (w *JSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	data, err := json.MarshalIndent(w.records, "", "  ")
	if err != nil {
		return utils.WrapError(utils.ErrCodeOutputFailed, "marshaling records", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "creating output directory", err)
		}
	}
	if err := os.WriteFile(w.path, append(data, '\n'), 0644); err != nil {
		return utils.WrapError(utils.ErrCodeOutputFailed, "writing "+w.path, err)
	}
	return nil
}
