package auth

import (
	"time"

	"github.com/saddlefit/oms/internal/rbac"
)

// User represents an account as seen by the login flow.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         rbac.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal converts the account into the request-scoped identity.
func (u User) Principal() rbac.AuthenticatedUser {
	return rbac.AuthenticatedUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Session is the result of a successful login.
type Session struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	User      rbac.AuthenticatedUser `json:"user"`
}
