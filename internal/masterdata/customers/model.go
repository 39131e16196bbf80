package customers

import (
	"time"
)

// Customer is a rider whose horse is fitted.
type Customer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CountryCode string    `json:"country_code"`
	HorseName   string    `json:"horse_name"`
	FitterID    *int64    `json:"fitter_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is the writable part of a Customer.
type Input struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=50"`
	Address     string `json:"address" validate:"max=500"`
	CountryCode string `json:"country_code" validate:"omitempty,len=2"`
	HorseName   string `json:"horse_name" validate:"max=100"`
	FitterID    *int64 `json:"fitter_id" validate:"omitempty,gt=0"`
	IsActive    *bool  `json:"is_active"`
}
