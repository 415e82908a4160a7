// Package messages persists the turns of chat sessions.
package messages

import (
	"context"

	"github.com/dmitrijs2005/agentchat/internal/models"
)

type Repository interface {
	// Create appends m to its session. An unknown session yields
	// common.ErrorNotFound.
	Create(ctx context.Context, m *models.Message) (*models.Message, error)
	// ListBySession returns the session's messages in insertion order.
	ListBySession(ctx context.Context, sessionID int64) ([]models.Message, error)
}
