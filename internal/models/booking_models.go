package models

import "time"

// BookingStatus defines the type for booking statuses
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// IsValidBookingStatus checks if the provided status string is a valid BookingStatus.
func IsValidBookingStatus(status string) bool {
	switch BookingStatus(status) {
	case BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusInProgress,
		BookingStatusCompleted,
		BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// Booking represents a scheduled cleaning.
// BookingDate is persisted as YYYY-MM-DD and BookingTime as HH:MM:SS (24-hour).
type Booking struct {
	ID          string        `json:"id" db:"id"`
	CustomerID  string        `json:"customer_id" db:"customer_id"`
	ServiceID   *string       `json:"service_id,omitempty" db:"service_id"`
	BookingDate string        `json:"booking_date" db:"booking_date"`
	BookingTime string        `json:"booking_time" db:"booking_time"`
	Notes       *string       `json:"notes,omitempty" db:"notes"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	Customer    *Customer     `json:"customer,omitempty"` // joined, nil when the customer row is gone
	Service     *Service      `json:"service,omitempty"`  // joined, nil when the service was deleted or never linked
}

// BookingStatusHistoryEntry is an append-only audit record of one status change.
// OldStatus is nil for the entry written when the booking was created.
type BookingStatusHistoryEntry struct {
	ID        string         `json:"id" db:"id"`
	BookingID string         `json:"booking_id" db:"booking_id"`
	OldStatus *BookingStatus `json:"old_status" db:"old_status"`
	NewStatus BookingStatus  `json:"new_status" db:"new_status"`
	ChangedAt time.Time      `json:"changed_at" db:"changed_at"`
}

// BookingFilters defines the available filters for listing bookings.
// Status is applied by the database; Search refines the fetched rows.
type BookingFilters struct {
	Status *BookingStatus `form:"status"`
	Search string         `form:"search"`
}
