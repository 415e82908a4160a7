package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT UNIQUE);`)
	require.NoError(t, err)
	return db
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "sqlite untouched",
			dialect: DialectSQLite,
			in:      "SELECT id FROM users WHERE username = ? AND id = ?",
			want:    "SELECT id FROM users WHERE username = ? AND id = ?",
		},
		{
			name:    "postgres numbered",
			dialect: DialectPostgres,
			in:      "INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)",
			want:    "INSERT INTO messages (session_id, role, content) VALUES ($1, $2, $3)",
		},
		{
			name:    "quoted question mark kept",
			dialect: DialectPostgres,
			in:      "SELECT '?' , id FROM t WHERE v = ?",
			want:    "SELECT '?' , id FROM t WHERE v = $1",
		},
		{
			name:    "no placeholders",
			dialect: DialectPostgres,
			in:      "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO t(v) VALUES ('alice')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO t(v) VALUES ('alice')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("db error: %w", err)), "must see through wrapping")
}

func TestIsUniqueViolation_SQLiteOtherConstraint(t *testing.T) {
	db := setupDB(t)

	_, err := db.Exec(`CREATE TABLE n (v TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO n(v) VALUES (NULL)`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsForeignKeyViolation_Postgres(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}

func TestDBTX_SatisfiedByDBAndTx(t *testing.T) {
	db := setupDB(t)

	var _ DBTX = db

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	var _ DBTX = tx
}
