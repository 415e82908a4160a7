package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/agentchat/internal/auth"
	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/config"
	"github.com/dmitrijs2005/agentchat/internal/cryptox"
	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/repositories/repomanager"
)

const (
	MinUserNameLength = 3
	MinPasswordLength = 6
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token    string
	UserID   int64
	UserName string
}

// AccountService registers and authenticates users.
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
	logger        logging.Logger
	now           func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
		logger:        logger.With("module", "accounts"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ValidateSignUp applies the sign-up form rules.
func ValidateSignUp(username, password, confirm string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < MinUserNameLength {
		return fmt.Errorf("%w: username must be at least %d characters long", common.ErrorValidation, MinUserNameLength)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, MinPasswordLength)
	}
	if len(password) > cryptox.MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes long", common.ErrorValidation, cryptox.MaxPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}
	return nil
}

// SignUp validates the form input and registers the user.
func (s *AccountService) SignUp(ctx context.Context, username, password, confirm string) (int64, error) {
	if err := ValidateSignUp(username, password, confirm); err != nil {
		return 0, err
	}
	return s.Register(ctx, strings.TrimSpace(username), password)
}

// Register creates an account and returns its ID. A taken username yields
// common.ErrorAlreadyExists and leaves the existing account untouched.
func (s *AccountService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, cryptox.ErrTooLong) {
			return 0, fmt.Errorf("%w: password must be at most %d bytes long", common.ErrorValidation, cryptox.MaxPasswordLength)
		}
		s.logger.Error(ctx, "hash password", "error", err)
		return 0, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, CreatedAt: s.now()})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u.ID, nil
}

// Verify checks the credentials and returns the user ID. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized and cost one bcrypt
// comparison each. The username is trimmed the same way SignUp trims it.
func (s *AccountService) Verify(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnCompare([]byte(password), s.bcryptCost)
			return 0, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return 0, common.ErrorInternal
	}

	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return 0, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "check password", "user_id", user.ID, "error", err)
		return 0, common.ErrorInternal
	}

	return user.ID, nil
}

// Login verifies the credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	id, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(id, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "generate token", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, UserID: id, UserName: strings.TrimSpace(username)}, nil
}
