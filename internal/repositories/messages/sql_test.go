package messages

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.DialectPostgres), mock, db
}

func TestCreate_Postgres(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	now := time.Now().UTC()
	q := `(?s)^INSERT\s+INTO\s+messages\s*\(session_id,\s*role,\s*content,\s*"timestamp"\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(1), "user", "hi", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	m, err := repo.Create(context.Background(), &models.Message{SessionID: 1, Role: models.RoleUser, Content: "hi", Timestamp: now})
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InvalidRoleNeverHitsDB(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	_, err := repo.Create(context.Background(), &models.Message{SessionID: 1, Role: "tool", Content: "x"})
	require.ErrorIs(t, err, common.ErrorValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownSession(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO messages`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Message{SessionID: 9, Role: models.RoleUser})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO messages`).
		WillReturnError(errors.New("disk full"))

	_, err := repo.Create(context.Background(), &models.Message{SessionID: 1, Role: models.RoleAssistant})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: disk full")
}

func TestListBySession_Scans(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)
	rows := sqlmock.NewRows([]string{"id", "session_id", "role", "content", "timestamp"}).
		AddRow(int64(1), int64(4), "user", "hi", t1).
		AddRow(int64(2), int64(4), "assistant", "hello", t2)
	mock.ExpectQuery(`(?s)FROM messages\s+WHERE session_id = \$1\s+ORDER BY "timestamp" ASC, id ASC`).
		WithArgs(int64(4)).
		WillReturnRows(rows)

	got, err := repo.ListBySession(context.Background(), 4)
	require.NoError(t, err)

	want := []models.Message{
		{ID: 1, SessionID: 4, Role: models.RoleUser, Content: "hi", Timestamp: t1},
		{ID: 2, SessionID: 4, Role: models.RoleAssistant, Content: "hello", Timestamp: t2},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestListBySession_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM messages`).WillReturnError(errors.New("boom"))

	_, err := repo.ListBySession(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: boom")
}
