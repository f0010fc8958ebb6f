package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wardbook/records/config"
	internalErrs "github.com/wardbook/records/errors"
	"github.com/wardbook/records/users"
)

var (
	ErrMissingCredentials = internalErrs.New(internalErrs.BadRequest, "Username and password are required")
	ErrInvalidCredentials = internalErrs.New(internalErrs.Unauthorized, "Invalid username or password")
	ErrNotApproved        = internalErrs.New(internalErrs.Forbidden, "Account is awaiting approval")
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Session struct {
	Token     string      `json:"token"`
	User      *users.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type Service interface {
	Register(ctx context.Context, request RegisterRequest) (*users.User, error)
	Login(ctx context.Context, request LoginRequest) (*Session, error)
	// CurrentUser returns nil without an error when the token does not identify a user
	CurrentUser(ctx context.Context, token string) (*users.User, error)
}

type service struct {
	cfg           *config.Config
	users         users.Service
	tokens        *TokenManager
	authenticator *Authenticator
	logger        *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(cfg *config.Config, usersService users.Service, tokens *TokenManager, authenticator *Authenticator, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		cfg:           cfg,
		users:         usersService,
		tokens:        tokens,
		authenticator: authenticator,
		logger:        logger,
	}, nil
}

func (s *service) Register(ctx context.Context, request RegisterRequest) (*users.User, error) {
	username := strings.TrimSpace(request.Username)
	if username == "" || request.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	status := s.cfg.DefaultUserStatus
	if status == "" {
		status = users.StatusPending
	}

	user, err := s.users.Create(ctx, &users.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(request.FullName),
		Position:     strings.TrimSpace(request.Position),
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user registered", "userId", user.IdString(), "username", user.Username, "status", user.Status)
	return user, nil
}

func (s *service) Login(ctx context.Context, request LoginRequest) (*Session, error) {
	username := strings.TrimSpace(request.Username)
	if username == "" || request.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !ComparePassword(user.PasswordHash, request.Password) {
		s.logger.Infow("login failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	if s.cfg.RequireApprovedLogin && !user.IsApproved() {
		return nil, ErrNotApproved
	}

	token, expiresAt, err := s.tokens.Issue(user.IdString())
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user logged in", "userId", user.IdString(), "status", user.Status)
	return &Session{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (*users.User, error) {
	auth, err := s.authenticator.Authenticate(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return auth.User, nil
}
