package models

import "time"

// Customer represents a person who booked a cleaning.
// A customer row is created once per booking submission and is not merged or edited afterwards.
type Customer struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Source    *string   `json:"source,omitempty" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CustomerSourceWebsite marks customers created by the public booking flow.
const CustomerSourceWebsite = "Website"
