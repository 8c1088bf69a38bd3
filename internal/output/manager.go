// internal/output/manager.go
package output

import (
	"context"
	"errors"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// Manager fans records out to multiple writers. A failing writer does not
// stop delivery to the others; errors are joined and surfaced together.
type Manager struct {
	writers []Writer
	logger  utils.Logger
}

// NewManager creates a manager over the given writers.
func NewManager(logger utils.Logger, writers ...Writer) *Manager {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Manager{writers: writers, logger: logger}
}

// Write delivers the batch to every writer.
func (m *Manager) Write(ctx context.Context, records []types.MovieRecord) error {
	var errs []error
	for _, writer := range m.writers {
		if err := writer.Write(ctx, records); err != nil {
			m.logger.Errorf("output writer failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every writer, returning the joined failures.
func (m *Manager) Close() error {
	var errs []error
	for _, writer := range m.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
