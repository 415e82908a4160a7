// Package repomanager vends the SQL repositories for one dialect and runs
// the embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/dmitrijs2005/agentchat/internal/migrations"
	"github.com/dmitrijs2005/agentchat/internal/repositories/memory"
	"github.com/dmitrijs2005/agentchat/internal/repositories/messages"
	"github.com/dmitrijs2005/agentchat/internal/repositories/sessions"
	"github.com/dmitrijs2005/agentchat/internal/repositories/users"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Messages(db dbx.DBTX) messages.Repository
	Memory(db dbx.DBTX) memory.Repository
}

// SQLRepositoryManager vends database/sql backed repositories for either
// SQLite or PostgreSQL.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewRepositoryManager constructs a RepositoryManager for dialect d.
func NewRepositoryManager(d dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db, m.dialect)
}

// Messages returns a messages.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewSQLRepository(db, m.dialect)
}

// Memory returns a memory.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Memory(db dbx.DBTX) memory.Repository {
	return memory.NewSQLRepository(db, m.dialect)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrateUp(ctx, db, m.dialect); err != nil {
		return err
	}
	return nil
}

// Open connects to dsn and returns the pool together with a manager for
// the detected dialect. Migrations are not run.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	db, d, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, NewRepositoryManager(d), nil
}
