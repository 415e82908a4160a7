package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
)

// InferenceClient produces the assistant reply for a conversation.
type InferenceClient interface {
	Chat(ctx context.Context, model string, history []inference.Message) (inference.Message, error)
}

// SessionOptions are the optional fields of a new session; empty values get
// the defaults.
type SessionOptions struct {
	Title          string
	SystemPrompt   string
	CharacterImage string
}

type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	inference   InferenceClient
	logger      logging.Logger
	now         func() time.Time
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, ic InferenceClient, logger logging.Logger) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		inference:   ic,
		logger:      logger.With("module", "chats"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *ChatService) CreateSession(ctx context.Context, userID int64, opts SessionOptions) (int64, error) {
	cs := &models.ChatSession{
		UserID:         userID,
		Title:          strings.TrimSpace(opts.Title),
		SystemPrompt:   opts.SystemPrompt,
		CharacterImage: opts.CharacterImage,
		CreatedAt:      s.now(),
	}
	if cs.Title == "" {
		cs.Title = models.DefaultSessionTitle
	}
	if cs.CharacterImage == "" {
		cs.CharacterImage = models.DefaultCharacterImage
	}

	created, err := s.repomanager.Sessions(s.db).Create(ctx, cs)
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "session created", "user_id", userID, "session_id", created.ID)
	return created.ID, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *ChatService) ListSessions(ctx context.Context, userID int64) ([]models.ChatSession, error) {
	return s.repomanager.Sessions(s.db).ListByUser(ctx, userID)
}

// GetSession loads a session owned by userID. Sessions of other users are
// reported as common.ErrorNotFound.
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID int64) (*models.ChatSession, error) {
	cs, err := s.repomanager.Sessions(s.db).GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cs.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return cs, nil
}

func (s *ChatService) AppendMessage(ctx context.Context, sessionID int64, role models.Role, content string) error {
	_, err := s.appendMessage(ctx, sessionID, role, content)
	return err
}

func (s *ChatService) appendMessage(ctx context.Context, sessionID int64, role models.Role, content string) (*models.Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, common.ErrorValidation)
	}
	return s.repomanager.Messages(s.db).Create(ctx, &models.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
}

// ListMessages returns the session's messages in the order they were added.
func (s *ChatService) ListMessages(ctx context.Context, sessionID int64) ([]models.Message, error) {
	return s.repomanager.Messages(s.db).ListBySession(ctx, sessionID)
}

// UpdateSystemPrompt replaces the session's system prompt. An empty prompt
// clears it.
func (s *ChatService) UpdateSystemPrompt(ctx context.Context, sessionID int64, prompt string) error {
	return s.repomanager.Sessions(s.db).UpdateSystemPrompt(ctx, sessionID, prompt)
}

func (s *ChatService) UpdateCharacterImage(ctx context.Context, sessionID int64, image string) error {
	if image == "" {
		return fmt.Errorf("%w: image name is required", common.ErrorValidation)
	}
	return s.repomanager.Sessions(s.db).UpdateCharacterImage(ctx, sessionID, image)
}

// Send runs one chat turn: the user message is stored, the full history
// (prefixed by the system prompt, if any) goes to the model and the reply
// is stored and returned. When the model fails its error is returned as is
// and the user message stays stored without a reply.
func (s *ChatService) Send(ctx context.Context, userID, sessionID int64, model, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrorValidation)
	}

	cs, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.appendMessage(ctx, sessionID, models.RoleUser, text); err != nil {
		return nil, err
	}

	history, err := s.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prompt := make([]inference.Message, 0, len(history)+1)
	if cs.SystemPrompt != "" {
		prompt = append(prompt, inference.Message{Role: models.RoleSystem, Content: cs.SystemPrompt})
	}
	for _, m := range history {
		prompt = append(prompt, inference.Message{Role: m.Role, Content: m.Content})
	}

	started := s.now()
	reply, err := s.inference.Chat(ctx, model, prompt)
	if err != nil {
		s.logger.Warn(ctx, "chat turn failed", "session_id", sessionID, "model", model, "error", err)
		return nil, err
	}

	stored, err := s.appendMessage(ctx, sessionID, models.RoleAssistant, reply.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "chat turn finished",
		"session_id", sessionID, "model", model, "history", len(prompt), "elapsed", s.now().Sub(started))
	return stored, nil
}
