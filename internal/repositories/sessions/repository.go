// Package sessions persists chat sessions.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/agentchat/internal/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.ChatSession) (*models.ChatSession, error)
	// ListByUser returns the user's sessions, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.ChatSession, error)
	GetByID(ctx context.Context, id int64) (*models.ChatSession, error)
	UpdateSystemPrompt(ctx context.Context, id int64, prompt string) error
	UpdateCharacterImage(ctx context.Context, id int64, image string) error
}
