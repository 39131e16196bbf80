package users

import (
	"time"

	"github.com/saddlefit/oms/internal/rbac"
)

// User represents a user account for management.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        rbac.Role  `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListFilters narrows user listings.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	Role     rbac.Role
	IsActive *bool
}

// CreateInput is the payload for a new account.
type CreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,oneof=USER FITTER SUPPLIER ADMIN SUPERVISOR"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateInput edits profile fields; role and password have their own calls.
type UpdateInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	IsActive *bool  `json:"is_active"`
}

// RoleInput assigns a role.
type RoleInput struct {
	Role string `json:"role" validate:"required,oneof=USER FITTER SUPPLIER ADMIN SUPERVISOR"`
}

// PasswordInput resets a password.
type PasswordInput struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}
