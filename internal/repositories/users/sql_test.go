package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T, d dbx.Dialect) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db, d), mock, db
}

const (
	insertPG = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`
	selectPG = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(42))
	mock.ExpectQuery(insertPG).
		WithArgs("alice", []byte("hash"), now).
		WillReturnRows(rows)

	u := &models.User{UserName: "alice", PasswordHash: []byte("hash"), CreatedAt: now}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_SQLitePlaceholders(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectSQLite)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\?,\s*\?,\s*\?\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice", []byte("hash"), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: []byte("hash")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	mock.ExpectQuery(insertPG).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: []byte("hash")})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	mock.ExpectQuery(insertPG).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", PasswordHash: []byte("hash")})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("generic failure must not be reported as duplicate")
	}
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(int64(7), "alice", []byte("hash"), now)
	mock.ExpectQuery(selectPG).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetUserByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByLogin error: %v", err)
	}
	if got.ID != 7 || got.UserName != "alice" || string(got.PasswordHash) != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	mock.ExpectQuery(selectPG).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, dbx.DialectPostgres)
	defer db.Close()

	mock.ExpectQuery(selectPG).
		WithArgs("alice").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByLogin(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
