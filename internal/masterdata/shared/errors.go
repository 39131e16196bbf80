package shared

import (
	root "github.com/saddlefit/oms/internal/shared"
)

var (
	ErrNotFound  = root.ErrNotFound
	ErrDuplicate = root.ErrDuplicate
	ErrInvalidID = root.NewValidationError("id", "must be a positive integer")
)
