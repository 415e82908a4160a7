package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/config"
	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "agent1.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))

	return db, m
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost,
	}
}

func newAccounts(t *testing.T, db *sql.DB, m repomanager.RepositoryManager) *AccountService {
	t.Helper()
	return NewAccountService(db, m, testConfig(), logging.NewNopLogger())
}

type fakeInference struct {
	mu     sync.Mutex
	reply  string
	err    error
	models []string
	calls  []inferenceCall
}

type inferenceCall struct {
	model   string
	history []inference.Message
}

func (f *fakeInference) Chat(ctx context.Context, model string, history []inference.Message) (inference.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inferenceCall{model: model, history: history})
	if f.err != nil {
		return inference.Message{}, f.err
	}
	return inference.Message{Role: models.RoleAssistant, Content: f.reply}, nil
}

func (f *fakeInference) Models(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}
