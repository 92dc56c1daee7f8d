package services

import (
	"fmt"

	"homeclean_backend/internal/models"
)

// TransitionPolicy decides whether a booking may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to models.BookingStatus) error
}

// TransitionError is returned by a policy that rejects a move.
type TransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

// PermissivePolicy allows every move, letting staff correct any mistake.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, _ models.BookingStatus) error { return nil }

// StrictPolicy only allows the moves listed in its table.
type StrictPolicy struct {
	allowed map[models.BookingStatus][]models.BookingStatus
}

// NewStrictPolicy returns the standard lifecycle: a booking is confirmed, worked
// and completed, may be cancelled until it is completed, and a cancelled booking
// may be reopened as pending.
func NewStrictPolicy() StrictPolicy {
	return StrictPolicy{allowed: map[models.BookingStatus][]models.BookingStatus{
		models.BookingStatusPending:    {models.BookingStatusConfirmed, models.BookingStatusCancelled},
		models.BookingStatusConfirmed:  {models.BookingStatusInProgress, models.BookingStatusCompleted, models.BookingStatusCancelled},
		models.BookingStatusInProgress: {models.BookingStatusCompleted, models.BookingStatusCancelled},
		models.BookingStatusCancelled:  {models.BookingStatusPending},
	}}
}

func (p StrictPolicy) Allow(from, to models.BookingStatus) error {
	for _, s := range p.allowed[from] {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}
