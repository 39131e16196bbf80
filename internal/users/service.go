package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, f ListFilters) ([]User, int, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, u User, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, id int64, u User) (User, error)
	SetRole(ctx context.Context, id int64, role rbac.Role) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

// SessionRevoker ends every live session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	sessions SessionRevoker
	audit    shared.AuditRecorder
	logger   *slog.Logger
	cost     int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, sessions SessionRevoker, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sessions: sessions, audit: audit, logger: logger, cost: bcrypt.DefaultCost}
}

// ListUsers returns a page of users.
func (s *Service) ListUsers(ctx context.Context, f ListFilters) ([]User, int, error) {
	return s.repo.ListUsers(ctx, f)
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser registers an account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, in CreateInput) (User, error) {
	in.Username = shared.NormalizeUsername(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := shared.Validate(in); err != nil {
		return User{}, err
	}
	role, _ := rbac.ParseRole(in.Role)
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.repo.CreateUser(ctx, User{Username: in.Username, Email: in.Email, FullName: in.FullName, Role: role}, string(hash))
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	s.record(ctx, shared.AuditCreate, created.ID, map[string]any{"username": created.Username, "role": string(created.Role)})
	return created, nil
}

// UpdateUser edits profile fields. Deactivation ends live sessions.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := shared.Validate(in); err != nil {
		return User{}, err
	}
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	current.Email = in.Email
	current.FullName = in.FullName
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}
	updated, err := s.repo.UpdateUser(ctx, id, current)
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if !updated.IsActive {
		s.revoke(ctx, id)
	}
	s.record(ctx, shared.AuditUpdate, id, nil)
	return updated, nil
}

// AssignRole changes the user's role and forces re-login.
func (s *Service) AssignRole(ctx context.Context, id int64, in RoleInput) error {
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := shared.Validate(in); err != nil {
		return err
	}
	role, _ := rbac.ParseRole(in.Role)
	if actor := rbac.UserFromContext(ctx); actor != nil && actor.ID == id && role != actor.Role {
		return fmt.Errorf("%w: cannot change own role", shared.ErrForbidden)
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.revoke(ctx, id)
	s.record(ctx, shared.AuditRoleChange, id, map[string]any{"role": string(role)})
	return nil
}

// ResetPassword stores a new password hash and forces re-login.
func (s *Service) ResetPassword(ctx context.Context, id int64, in PasswordInput) error {
	if err := shared.Validate(in); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetPasswordHash(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.revoke(ctx, id)
	s.record(ctx, shared.AuditUpdate, id, map[string]any{"password": "reset"})
	return nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if actor := rbac.UserFromContext(ctx); actor != nil && actor.ID == id {
		return fmt.Errorf("%w: cannot delete own account", shared.ErrForbidden)
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.revoke(ctx, id)
	s.record(ctx, shared.AuditDelete, id, nil)
	return nil
}

func (s *Service) revoke(ctx context.Context, id int64) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		s.logger.Warn("revoke sessions", slog.Int64("user_id", id), slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditLog{Action: action, Entity: "user", EntityID: shared.EntityID(id), Meta: meta}
	if actor := rbac.UserFromContext(ctx); actor != nil {
		entry.ActorID, entry.Actor = actor.ID, actor.Username
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit user change", slog.Any("error", err))
	}
}
