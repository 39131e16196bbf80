package countrymanagers

import (
	"time"
)

// CountryManager oversees fitters and warehouses in one country.
type CountryManager struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CountryCode string    `json:"country_code"`
	Region      string    `json:"region"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is the writable part of a CountryManager.
type Input struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=50"`
	CountryCode string `json:"country_code" validate:"required,len=2"`
	Region      string `json:"region" validate:"max=100"`
	IsActive    *bool  `json:"is_active"`
}
