// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

const postgresDDL = `
CREATE TABLE IF NOT EXISTS %q (
	id BIGSERIAL PRIMARY KEY,
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

// NewPostgreSQLWriter connects to PostgreSQL and ensures the records table
// exists.
func NewPostgreSQLWriter(dsn, table string) (Writer, error) {
	if dsn == "" {
		return nil, utils.NewError(utils.ErrCodeDatabaseError, "postgresql writer needs a DSN")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "opening postgresql connection", err)
	}

	return newSQLWriter(db, fmt.Sprintf(postgresDDL, table), insertSQL(table, dollarPlaceholder, doubleQuote))
}
