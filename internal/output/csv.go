// internal/output/csv.go
package output

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// CSVWriter streams records to a CSV file. The header row is written before
// the first record batch.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
	wrote  bool
	closed bool
}

// NewCSVWriter creates a CSV file writer.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, utils.NewError(utils.ErrCodeOutputFailed, "csv writer needs a file path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, utils.WrapError(utils.ErrCodeOutputFailed, "creating output directory", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeOutputFailed, "creating "+path, err)
	}
	return &CSVWriter{file: file, writer: csv.NewWriter(file)}, nil
}

// Write appends one row per record, emitting the header first.
func (w *CSVWriter) Write(_ context.Context, records []types.MovieRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return utils.NewError(utils.ErrCodeOutputFailed, "write after close")
	}

	if !w.wrote {
		if err := w.writer.Write(headerNames()); err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "writing csv header", err)
		}
		w.wrote = true
	}

	for _, record := range records {
		if err := w.writer.Write(recordValues(record)); err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "writing csv row", err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the file.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return utils.WrapError(utils.ErrCodeOutputFailed, "flushing csv", err)
	}
	return w.file.Close()
}
