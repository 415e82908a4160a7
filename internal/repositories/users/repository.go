// Package users persists accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/agentchat/internal/models"
)

type Repository interface {
	// Create inserts the user and fills in its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
