package presets

import (
	"time"
)

// Preset is a catalogue saddle configuration offered by a supplier.
// Prices are in minor currency units.
type Preset struct {
	ID         int64     `json:"id"`
	SupplierID int64     `json:"supplier_id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	SeatSize   string    `json:"seat_size"`
	Color      string    `json:"color"`
	BasePrice  int64     `json:"base_price"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Input is the writable part of a Preset.
type Input struct {
	SupplierID int64  `json:"supplier_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,max=200"`
	Brand      string `json:"brand" validate:"max=100"`
	Model      string `json:"model" validate:"max=100"`
	SeatSize   string `json:"seat_size" validate:"max=20"`
	Color      string `json:"color" validate:"max=50"`
	BasePrice  int64  `json:"base_price" validate:"gte=0"`
	IsActive   *bool  `json:"is_active"`
}
