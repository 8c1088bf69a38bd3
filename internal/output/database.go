// internal/output/database.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// placeholderFunc renders the parameter marker for a 1-based position,
// covering the "?" and "$N" placeholder dialects.
type placeholderFunc func(position int) string

func questionPlaceholder(int) string        { return "?" }
func dollarPlaceholder(position int) string { return fmt.Sprintf("$%d", position) }

// quoteFunc escapes an identifier. Columns are always quoted because "cast"
// is a reserved word in every supported dialect.
type quoteFunc func(identifier string) string

func doubleQuote(identifier string) string   { return `"` + identifier + `"` }
func backtickQuote(identifier string) string { return "`" + identifier + "`" }

// insertSQL builds the INSERT statement for the record schema.
func insertSQL(table string, placeholder placeholderFunc, quote quoteFunc) string {
	columns := make([]string, len(recordColumns))
	markers := make([]string, len(recordColumns))
	for i, col := range recordColumns {
		columns[i] = quote(col)
		markers[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table),
		strings.Join(columns, ", "),
		strings.Join(markers, ", "))
}

// sqlWriter is the shared core of the SQL-backed writers. The per-backend
// constructors supply the connection, the schema DDL, and the placeholder
// dialect.
type sqlWriter struct {
	db     *sql.DB
	insert string
	mu     sync.Mutex
	closed bool
}

func newSQLWriter(db *sql.DB, createDDL, insert string) (*sqlWriter, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "connecting to database", err)
	}
	if _, err := db.Exec(createDDL); err != nil {
		db.Close()
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "creating schema", err)
	}
	return &sqlWriter{db: db, insert: insert}, nil
}

// Write inserts all records in one transaction.
func (w *sqlWriter) Write(ctx context.Context, records []types.MovieRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return utils.NewError(utils.ErrCodeDatabaseError, "write after close")
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.WrapError(utils.ErrCodeDatabaseError, "starting transaction", err)
	}

	stmt, err := tx.PrepareContext(ctx, w.insert)
	if err != nil {
		tx.Rollback()
		return utils.WrapError(utils.ErrCodeDatabaseError, "preparing insert", err)
	}
	defer stmt.Close()

	for _, record := range records {
		values := recordValues(record)
		args := make([]interface{}, len(values))
		for i, v := range values {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return utils.WrapError(utils.ErrCodeDatabaseError, "inserting record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.WrapError(utils.ErrCodeDatabaseError, "committing records", err)
	}
	return nil
}

// Close closes the database connection.
func (w *sqlWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.db.Close()
}
