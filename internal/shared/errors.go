package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the request failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the resource is referenced or already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition indicates a status change that is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden indicates the caller lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
