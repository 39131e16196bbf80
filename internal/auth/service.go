package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// SessionRegistry tracks live token sessions.
type SessionRegistry interface {
	Open(ctx context.Context, userID int64) (string, error)
	Active(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	sessions SessionRegistry
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, sessions SessionRegistry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, sessions: sessions, logger: logger}
}

// Login validates username/password credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repo.FindByUsername(ctx, shared.NormalizeUsername(username))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("auth lookup", slog.Any("error", err))
		}
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive || user.Role == "" {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Open(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	principal := user.Principal()
	token, expires, err := s.tokens.Issue(principal, sessionID)
	if err != nil {
		_ = s.sessions.Revoke(ctx, sessionID)
		return nil, err
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("touch last login", slog.Any("error", err))
	}
	return &Session{Token: token, ExpiresAt: expires, User: principal}, nil
}

// Verify resolves a bearer token into the caller and its session id.
func (s *Service) Verify(ctx context.Context, raw string) (rbac.AuthenticatedUser, string, error) {
	user, sessionID, err := s.tokens.Parse(raw)
	if err != nil {
		return rbac.AuthenticatedUser{}, "", shared.ErrUnauthorized
	}
	active, err := s.sessions.Active(ctx, sessionID)
	if err != nil {
		return rbac.AuthenticatedUser{}, "", fmt.Errorf("check session: %w", err)
	}
	if !active {
		return rbac.AuthenticatedUser{}, "", shared.ErrUnauthorized
	}
	return user, sessionID, nil
}

// Logout revokes the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}
