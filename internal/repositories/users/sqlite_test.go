package users

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/dmitrijs2005/agentchat/internal/migrations"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*SQLRepository, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, d, err := dbx.Open(ctx, filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db, d))

	return NewSQLRepository(db, d), db
}

func TestSQLite_CreateAndGet(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	u, err := repo.Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("h1"), CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	got, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []byte("h1"), got.PasswordHash)
	assert.True(t, now.Equal(got.CreatedAt), "created_at round trip: %v", got.CreatedAt)
}

func TestSQLite_DuplicateKeepsFirst(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("first"), CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("second"), CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.PasswordHash)
}

func TestSQLite_UsernameIsCaseSensitive(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("x"), CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	_, err = repo.GetUserByLogin(ctx, "Alice")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
