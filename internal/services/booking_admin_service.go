package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/events"
	"homeclean_backend/internal/guard"
	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

// --- Custom Service Errors for Booking administration ---
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrStatusHistory   = errors.New("status change could not be recorded")
)

// NotAvailable is shown in place of a missing customer or service field.
const NotAvailable = "N/A"

// --- Booking administration DTOs ---

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingView is a booking as the back office displays it.
type BookingView struct {
	models.Booking
	Reference       string `json:"booking_reference"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
	ServiceName     string `json:"service_name"`
	DisplayDate     string `json:"display_date"`
	DisplayTime     string `json:"display_time"`
}

// StatusChange reports the outcome of a status update. Changed is false when
// the booking already had the requested status.
type StatusChange struct {
	BookingID string               `json:"booking_id"`
	OldStatus models.BookingStatus `json:"old_status"`
	NewStatus models.BookingStatus `json:"new_status"`
	Changed   bool                 `json:"changed"`
	ChangedAt *time.Time           `json:"changed_at,omitempty"`
}

// BookingAdminService backs the bookings tab of the back office.
type BookingAdminService interface {
	ListBookings(ctx context.Context, filters models.BookingFilters) ([]BookingView, error)
	GetBooking(ctx context.Context, id string) (*BookingView, error)
	UpdateStatus(ctx context.Context, id string, status string) (*StatusChange, error)
	History(ctx context.Context, id string) ([]models.BookingStatusHistoryEntry, error)
}

type bookingAdminService struct {
	db          *sql.DB
	bookingRepo repositories.BookingRepository
	historyRepo repositories.StatusHistoryRepository
	policy      TransitionPolicy
	guard       guard.Guard
	publisher   events.Publisher
	location    *time.Location
}

// NewBookingAdminService creates a new instance of BookingAdminService.
func NewBookingAdminService(
	db *sql.DB,
	br repositories.BookingRepository,
	hr repositories.StatusHistoryRepository,
	policy TransitionPolicy,
	g guard.Guard,
	publisher events.Publisher,
	location *time.Location,
) BookingAdminService {
	if policy == nil {
		policy = PermissivePolicy{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if location == nil {
		location = time.UTC
	}
	return &bookingAdminService{
		db:          db,
		bookingRepo: br,
		historyRepo: hr,
		policy:      policy,
		guard:       g,
		publisher:   publisher,
		location:    location,
	}
}

// NewBookingView fills the display fields of a booking, substituting "N/A"
// for anything the joins could not provide.
func NewBookingView(b models.Booking, loc *time.Location) BookingView {
	v := BookingView{
		Booking:         b,
		Reference:       wizard.Reference(b.ID),
		CustomerName:    NotAvailable,
		CustomerPhone:   NotAvailable,
		CustomerEmail:   NotAvailable,
		CustomerAddress: NotAvailable,
		ServiceName:     NotAvailable,
		DisplayDate:     b.BookingDate,
		DisplayTime:     b.BookingTime,
	}
	if c := b.Customer; c != nil {
		v.CustomerName = utils.StringOr(&c.FullName, NotAvailable)
		v.CustomerPhone = utils.StringOr(&c.Phone, NotAvailable)
		v.CustomerEmail = utils.StringOr(c.Email, NotAvailable)
		v.CustomerAddress = utils.StringOr(c.Address, NotAvailable)
	}
	if svc := b.Service; svc != nil {
		v.ServiceName = utils.StringOr(&svc.Name, NotAvailable)
	}
	if day, err := time.ParseInLocation(wizard.DateLayout, b.BookingDate, loc); err == nil {
		v.DisplayDate = wizard.FormatLongDate(day)
	}
	if label, err := wizard.ClockToLabel(b.BookingTime); err == nil {
		v.DisplayTime = label
	}
	return v
}

// MatchesSearch reports whether a booking matches the free-text search. Name,
// service and id compare case-insensitively; the phone is matched on the raw term.
func MatchesSearch(b models.Booking, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	if b.Customer != nil {
		if strings.Contains(strings.ToLower(b.Customer.FullName), lower) || strings.Contains(b.Customer.Phone, term) {
			return true
		}
	}
	if b.Service != nil && strings.Contains(strings.ToLower(b.Service.Name), lower) {
		return true
	}
	return strings.Contains(strings.ToLower(b.ID), lower)
}

func (s *bookingAdminService) ListBookings(ctx context.Context, filters models.BookingFilters) ([]BookingView, error) {
	if filters.Status != nil && *filters.Status != "" && !models.IsValidBookingStatus(string(*filters.Status)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *filters.Status)
	}
	bookings, err := s.bookingRepo.GetBookings(ctx, filters.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		if MatchesSearch(b, filters.Search) {
			views = append(views, NewBookingView(b, s.location))
		}
	}
	return views, nil
}

func (s *bookingAdminService) GetBooking(ctx context.Context, id string) (*BookingView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}
	b, err := s.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	v := NewBookingView(*b, s.location)
	return &v, nil
}

// UpdateStatus moves a booking to a new status. The status update and its
// history entry commit together; if either fails the booking keeps its old status.
func (s *bookingAdminService) UpdateStatus(ctx context.Context, id string, status string) (*StatusChange, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}
	newStatus := models.BookingStatus(status)

	release, err := s.guard.Acquire(ctx, guard.Key("booking", id))
	if errors.Is(err, guard.ErrBusy) {
		return nil, ErrWriteInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire write slot: %w", err)
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	oldStatus, err := s.bookingRepo.GetStatusForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking status: %w", err)
	}

	change := &StatusChange{BookingID: id, OldStatus: oldStatus, NewStatus: newStatus}
	if oldStatus == newStatus {
		return change, nil
	}
	if err := s.policy.Allow(oldStatus, newStatus); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, tx, id, newStatus); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	entry, err := s.historyRepo.AppendEntry(ctx, tx, &models.BookingStatusHistoryEntry{
		BookingID: id,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatusHistory, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}

	change.Changed = true
	change.ChangedAt = &entry.ChangedAt
	utils.LogInfo("Booking status changed", map[string]interface{}{"booking_id": id, "from": oldStatus, "to": newStatus})
	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeBookingStatusChanged, id, change)); err != nil {
		utils.LogError(err, "BookingAdminService: failed to publish booking.status_changed", map[string]interface{}{"booking_id": id})
	}
	return change, nil
}

func (s *bookingAdminService) History(ctx context.Context, id string) ([]models.BookingStatusHistoryEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}
	entries, err := s.historyRepo.GetHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return entries, nil
}
