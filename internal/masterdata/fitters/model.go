package fitters

import (
	"time"
)

// Fitter is a saddle fitter. Username links the record to a login account
// and is the value orders are filtered by.
type Fitter struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	CountryCode      string    `json:"country_code"`
	CountryManagerID *int64    `json:"country_manager_id"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Input is the writable part of a Fitter.
type Input struct {
	Username         string `json:"username" validate:"required,max=100"`
	Name             string `json:"name" validate:"required,max=200"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone" validate:"max=50"`
	CountryCode      string `json:"country_code" validate:"required,len=2"`
	CountryManagerID *int64 `json:"country_manager_id" validate:"omitempty,gt=0"`
	IsActive         *bool  `json:"is_active"`
}
