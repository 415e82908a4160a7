package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/dbx"
	"github.com/dmitrijs2005/agentchat/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Upsert(ctx context.Context, e *models.MemoryEntry) error {
	query :=
		`INSERT INTO user_memory (user_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, key)
		 DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, query), e.UserID, e.Key, e.Value, e.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("user %d: %w", e.UserID, common.ErrorNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, userID int64, key string) (*models.MemoryEntry, error) {
	query :=
		`SELECT id, user_id, key, value, updated_at FROM user_memory
		 WHERE user_id = ? AND key = ?`

	e := &models.MemoryEntry{}
	err := r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query), userID, key).
		Scan(&e.ID, &e.UserID, &e.Key, &e.Value, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}
