package messages

import (
	"context"
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

func (r *SQLRepository) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if !m.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", m.Role, common.ErrorValidation)
	}

	query :=
		`INSERT INTO messages (session_id, role, content, "timestamp")
		 VALUES (?, ?, ?, ?)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query),
		m.SessionID, string(m.Role), m.Content, m.Timestamp).Scan(&m.ID)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("session %d: %w", m.SessionID, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *SQLRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error) {
	query :=
		`SELECT id, session_id, role, content, "timestamp" FROM messages
		 WHERE session_id = ?
		 ORDER BY "timestamp" ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, dbx.Rebind(r.dialect, query), sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0)
	for rows.Next() {
		var (
			m    models.Message
			role string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.Role = models.Role(role)
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
