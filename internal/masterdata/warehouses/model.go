package warehouses

import (
	"time"
)

// Warehouse stores saddle stock.
type Warehouse struct {
	ID               int64     `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	CountryCode      string    `json:"country_code"`
	CountryManagerID *int64    `json:"country_manager_id"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Input is the writable part of a Warehouse.
type Input struct {
	Code             string `json:"code" validate:"required,max=32"`
	Name             string `json:"name" validate:"required,max=200"`
	Address          string `json:"address" validate:"max=500"`
	CountryCode      string `json:"country_code" validate:"required,len=2"`
	CountryManagerID *int64 `json:"country_manager_id" validate:"omitempty,gt=0"`
	IsActive         *bool  `json:"is_active"`
}
