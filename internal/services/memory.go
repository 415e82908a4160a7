package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
)

// MemoryService stores per-user key/value facts.
type MemoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewMemoryService(db *sql.DB, m repomanager.RepositoryManager) *MemoryService {
	return &MemoryService{
		db:          db,
		repomanager: m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Set stores value under key, replacing any previous value.
func (s *MemoryService) Set(ctx context.Context, userID int64, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: memory key is required", common.ErrorValidation)
	}
	return s.repomanager.Memory(s.db).Upsert(ctx, &models.MemoryEntry{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	})
}

// Get returns the value stored under key or common.ErrorNotFound.
func (s *MemoryService) Get(ctx context.Context, userID int64, key string) (string, error) {
	e, err := s.repomanager.Memory(s.db).Get(ctx, userID, key)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}
