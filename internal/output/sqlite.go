// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// sqliteDDL is applied on open; the id column keeps re-runs append-only.
const sqliteDDL = `
CREATE TABLE IF NOT EXISTS %q (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	"title" TEXT,
	"year" TEXT,
	"director" TEXT,
	"cast" TEXT,
	"genre" TEXT,
	"synopsis" TEXT,
	"poster_url" TEXT,
	"streaming_link" TEXT,
	"source_url" TEXT,
	"scraped_at" TEXT
)`

// NewSQLiteWriter opens (or creates) a SQLite database file.
func NewSQLiteWriter(path, table string) (Writer, error) {
	if path == "" {
		return nil, utils.NewError(utils.ErrCodeOutputFailed, "sqlite writer needs a file path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, utils.WrapError(utils.ErrCodeOutputFailed, "creating output directory", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "opening "+path, err)
	}

	return newSQLWriter(db, fmt.Sprintf(sqliteDDL, table), insertSQL(table, questionPlaceholder, doubleQuote))
}
