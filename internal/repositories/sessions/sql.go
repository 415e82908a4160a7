package sessions

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

const sessionColumns = `id, user_id, title, system_prompt, character_image, created_at`

func (r *SQLRepository) Create(ctx context.Context, s *models.ChatSession) (*models.ChatSession, error) {
	query :=
		`INSERT INTO chat_sessions (user_id, title, system_prompt, character_image, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query),
		s.UserID, s.Title, s.SystemPrompt, s.CharacterImage, s.CreatedAt).Scan(&s.ID)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("user %d: %w", s.UserID, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64) ([]models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, dbx.Rebind(r.dialect, query), userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ChatSession, 0)
	for rows.Next() {
		var s models.ChatSession
		if err := scanSession(rows, &s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = ?`

	s := &models.ChatSession{}
	err := scanSession(r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query), id), s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *SQLRepository) UpdateSystemPrompt(ctx context.Context, id int64, prompt string) error {
	return r.update(ctx, `UPDATE chat_sessions SET system_prompt = ? WHERE id = ?`, prompt, id)
}

func (r *SQLRepository) UpdateCharacterImage(ctx context.Context, id int64, image string) error {
	return r.update(ctx, `UPDATE chat_sessions SET character_image = ? WHERE id = ?`, image, id)
}

// update runs a single-row UPDATE and reports common.ErrorNotFound when no
// row matched.
func (r *SQLRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, query), args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner, s *models.ChatSession) error {
	return row.Scan(&s.ID, &s.UserID, &s.Title, &s.SystemPrompt, &s.CharacterImage, &s.CreatedAt)
}
