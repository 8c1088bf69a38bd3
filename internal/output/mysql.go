// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

const mysqlDDL = "CREATE TABLE IF NOT EXISTS `%s` (" +
	"id BIGINT AUTO_INCREMENT PRIMARY KEY, " +
	"`title` TEXT, " +
	"`year` VARCHAR(16), " +
	"`director` TEXT, " +
	"`cast` TEXT, " +
	"`genre` TEXT, " +
	"`synopsis` TEXT, " +
	"`poster_url` TEXT, " +
	"`streaming_link` TEXT, " +
	"`source_url` TEXT, " +
	"`scraped_at` VARCHAR(32)" +
	") CHARACTER SET utf8mb4"

// NewMySQLWriter connects to MySQL and ensures the records table exists.
func NewMySQLWriter(dsn, table string) (Writer, error) {
	if dsn == "" {
		return nil, utils.NewError(utils.ErrCodeDatabaseError, "mysql writer needs a DSN")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "opening mysql connection", err)
	}

	return newSQLWriter(db, fmt.Sprintf(mysqlDDL, table), insertSQL(table, questionPlaceholder, backtickQuote))
}
