// internal/output/types.go

// Package output persists extracted movie records. A Writer exists for each
// supported sink: JSON and CSV files, Excel workbooks, SQLite, MySQL,
// PostgreSQL, and MongoDB. The Manager fans records out to any combination
// of writers.
package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/valpere/MovieScrapexter/internal/config"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// Writer persists movie records to one sink. Write may be called many times
// per run; Close flushes and releases the sink.
type Writer interface {
	Write(ctx context.Context, records []types.MovieRecord) error
	Close() error
}

// recordColumns is the stable column order shared by the tabular writers.
var recordColumns = []string{
	"title",
	"year",
	"director",
	"cast",
	"genre",
	"synopsis",
	"poster_url",
	"streaming_link",
	"source_url",
	"scraped_at",
}

// recordValues flattens a record into recordColumns order.
func recordValues(r types.MovieRecord) []string {
	scrapedAt := ""
	if !r.ScrapedAt.IsZero() {
		scrapedAt = r.ScrapedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.Title,
		r.Year,
		r.Director,
		r.Cast,
		r.Genre,
		r.Synopsis,
		r.PosterURL,
		r.StreamingLink,
		r.SourceURL,
		scrapedAt,
	}
}

var headerCaser = cases.Title(language.English)

// headerNames renders recordColumns as display headers for CSV and Excel
// files ("poster_url" -> "Poster Url").
func headerNames() []string {
	headers := make([]string, len(recordColumns))
	for i, col := range recordColumns {
		headers[i] = headerCaser.String(strings.ReplaceAll(col, "_", " "))
	}
	return headers
}

// NewWriter builds the writer named by the output configuration.
func NewWriter(cfg config.OutputConfig) (Writer, error) {
	switch strings.ToLower(cfg.Format) {
	case "json":
		return NewJSONWriter(cfg.File)
	case "csv":
		return NewCSVWriter(cfg.File)
	case "excel":
		return NewExcelWriter(cfg.File)
	case "sqlite":
		return NewSQLiteWriter(cfg.File, tableName(cfg))
	case "mysql":
		if cfg.Database == nil {
			return nil, fmt.Errorf("mysql output requires a database section")
		}
		return NewMySQLWriter(cfg.Database.DSN, tableName(cfg))
	case "postgresql":
		if cfg.Database == nil {
			return nil, fmt.Errorf("postgresql output requires a database section")
		}
		return NewPostgreSQLWriter(cfg.Database.DSN, tableName(cfg))
	case "mongodb":
		if cfg.Database == nil {
			return nil, fmt.Errorf("mongodb output requires a database section")
		}
		return NewMongoWriter(cfg.Database.DSN, cfg.Database.Database, tableName(cfg))
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

// tableName returns the configured table or collection name, defaulting to
// "movies".
func tableName(cfg config.OutputConfig) string {
	if cfg.Database != nil && cfg.Database.Table != "" {
		return cfg.Database.Table
	}
	return "movies"
}
