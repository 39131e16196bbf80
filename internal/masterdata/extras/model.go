package extras

import (
	"time"
)

// Extra is an add-on that can be attached to an order line.
// Price is in minor currency units.
type Extra struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is the writable part of a Extra.
type Input struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Price       int64  `json:"price" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}
