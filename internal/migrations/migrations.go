// Package migrations embeds the goose schema migrations, one directory per
// SQL dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// FS returns the migration files for dialect d.
func FS(d dbx.Dialect) (fs.FS, error) {
	switch d {
	case dbx.DialectSQLite, dbx.DialectPostgres:
		return fs.Sub(Migrations, string(d))
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

func gooseDialect(d dbx.Dialect) goose.Dialect {
	if d == dbx.DialectPostgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

// Up applies all pending migrations. Running it on an up-to-date schema is
// a no-op. A goose Provider is used so nothing touches goose's package-level
// state.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	fsys, err := FS(d)
	if err != nil {
		return err
	}

	p, err := goose.NewProvider(gooseDialect(d), db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
