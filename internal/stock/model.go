package stock

import "time"

// Status of a stock saddle.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusAssigned  Status = "ASSIGNED"
	StatusSold      Status = "SOLD"
)

// Item is a physical saddle held in stock. Price is in minor units.
type Item struct {
	ID           int64      `json:"id"`
	SerialNumber string     `json:"serial_number"`
	SupplierID   int64      `json:"supplier_id"`
	PresetID     *int64     `json:"preset_id,omitempty"`
	WarehouseID  *int64     `json:"warehouse_id,omitempty"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	SeatSize     string     `json:"seat_size"`
	Color        string     `json:"color"`
	Condition    string     `json:"condition"`
	Price        int64      `json:"price"`
	Status       Status     `json:"status"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Input is the writable part of an Item.
type Input struct {
	SerialNumber string  `json:"serial_number" validate:"required,max=64"`
	SupplierID   int64   `json:"supplier_id" validate:"required,gt=0"`
	PresetID     *int64  `json:"preset_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID  *int64  `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	Brand        string  `json:"brand" validate:"required,max=100"`
	Model        string  `json:"model" validate:"max=100"`
	SeatSize     string  `json:"seat_size" validate:"max=20"`
	Color        string  `json:"color" validate:"max=50"`
	Condition    string  `json:"condition" validate:"required,oneof=NEW USED DEMO"`
	Price        int64   `json:"price" validate:"gte=0"`
	Status       string  `json:"status" validate:"omitempty,oneof=AVAILABLE ASSIGNED SOLD"`
	AssignedTo   *string `json:"assigned_to,omitempty" validate:"omitempty,max=100"`
	Notes        string  `json:"notes" validate:"max=2000"`
}

// Filters narrows stock listings.
type Filters struct {
	Page        int
	Limit       int
	Search      string
	SeatSize    string
	WarehouseID *int64
	Status      *Status
	AssignedTo  *string
}
