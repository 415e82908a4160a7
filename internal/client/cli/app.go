package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/agentchat/internal/config"
	"github.com/dmitrijs2005/agentchat/internal/images"
	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
	"github.com/dmitrijs2005/agentchat/internal/services"
)

type accountService interface {
	SignUp(ctx context.Context, username, password, confirm string) (int64, error)
	Verify(ctx context.Context, username, password string) (int64, error)
}

type chatService interface {
	CreateSession(ctx context.Context, userID int64, opts services.SessionOptions) (int64, error)
	ListSessions(ctx context.Context, userID int64) ([]models.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID int64) (*models.ChatSession, error)
	ListMessages(ctx context.Context, sessionID int64) ([]models.Message, error)
	UpdateSystemPrompt(ctx context.Context, sessionID int64, prompt string) error
	UpdateCharacterImage(ctx context.Context, sessionID int64, image string) error
	Send(ctx context.Context, userID, sessionID int64, model, text string) (*models.Message, error)
}

type memoryService interface {
	Set(ctx context.Context, userID int64, key, value string) error
	Get(ctx context.Context, userID int64, key string) (string, error)
}

type modelService interface {
	Default() string
	Available(ctx context.Context) []string
	Resolve(model string) string
}

type App struct {
	db       *sql.DB
	accounts accountService
	chats    chatService
	memory   memoryService
	models   modelService
	catalog  images.Catalog

	reader *bufio.Reader
	out    io.Writer

	userID   int64
	userName string
	session  *models.ChatSession
	model    string
}

// NewApp opens the local store, migrates it and connects the services to
// the configured inference backend and image catalog.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(c.LogLevel))

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	ic, err := inference.NewClient(c.OllamaHost, c.DefaultModel, nil, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var catalog images.Catalog
	if c.UseS3() {
		catalog, err = images.NewS3Catalog(ctx, images.S3Config{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
	} else {
		catalog, err = images.NewLocalCatalog(c.ImagesDir)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ms := services.NewModelService(ic, c.DefaultModel, c.FallbackModels, logger)

	return &App{
		db:       db,
		accounts: services.NewAccountService(db, rm, c, logger),
		chats:    services.NewChatService(db, rm, ic, logger),
		memory:   services.NewMemoryService(db, rm),
		models:   ms,
		catalog:  catalog,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		model:    ms.Default(),
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	a.println("Welcome to agentchat (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.userID != 0
}

func (a *App) hasSession() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.userName
	if a.session != nil {
		s = fmt.Sprintf("%s #%d %s", s, a.session.ID, a.session.Title)
	}
	return fmt.Sprintf("(%s)", s)
}

// requireLogin and requireSession report a missing precondition to the user.
func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		a.printInfo("Please log in first")
		return false
	}
	return true
}

func (a *App) requireSession() bool {
	if !a.requireLogin() {
		return false
	}
	if !a.hasSession() {
		a.printInfo("No open session, use 'new' or 'open <id>'")
		return false
	}
	return true
}
