package models

import "time"

// Service is a catalog entry offered to customers.
type Service struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	BasePrice       *float64  `json:"base_price,omitempty" db:"base_price"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" db:"duration_minutes"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
