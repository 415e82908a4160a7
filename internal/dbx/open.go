package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every pooled SQLite connection.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// DialectFor picks the dialect for a DSN: postgres:// and postgresql://
// URLs go to Postgres, anything else is a SQLite file path.
func DialectFor(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// driverSource returns the database/sql driver name and data source for dsn.
func driverSource(dsn string) (string, string) {
	if DialectFor(dsn) == DialectPostgres {
		return "pgx", dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return "sqlite", b.String()
}

// Open opens and pings the database named by dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, "", fmt.Errorf("empty database dsn")
	}

	driver, source := driverSource(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("db error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db error: %w", err)
	}

	return db, DialectFor(dsn), nil
}
