// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// the SQL dialects the store runs on, and driver error classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect identifies the SQL flavour a repository talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Rebind rewrites '?' placeholders into the form the dialect expects.
// Queries are written once with '?' and rebound for Postgres as $1, $2, ...
// Question marks inside single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure from
// either the SQLite or the Postgres driver.
func IsUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY failure, e.g.
// a message inserted for a session that does not exist.
func IsForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, pgForeignKeyViolation)
}

func isConstraint(err error, sqliteCode int, pgCode string) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteCode
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == pgCode
	}

	return false
}
