// Package memory persists per-user key/value facts.
package memory

import (
	"context"

	"github.com/dmitrijs2005/agentchat/internal/models"
)

type Repository interface {
	// Upsert inserts the entry or overwrites the value of an existing
	// (user, key) pair. Last write wins.
	Upsert(ctx context.Context, e *models.MemoryEntry) error
	// Get returns common.ErrorNotFound when the key has never been set.
	Get(ctx context.Context, userID int64, key string) (*models.MemoryEntry, error)
}
