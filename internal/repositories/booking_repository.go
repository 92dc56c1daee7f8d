package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/models"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error) // joined with customer and service
	GetBookings(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error)
	GetStatusForUpdate(ctx context.Context, executor SQLExecutor, id string) (models.BookingStatus, error)
	UpdateStatus(ctx context.Context, executor SQLExecutor, id string, status models.BookingStatus) error
	CountBookings(ctx context.Context, status *models.BookingStatus) (int, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Dates and times are rendered by Postgres so the scanned strings always use
// the YYYY-MM-DD and HH:MM:SS encodings.
const selectBookingFields = `
	b.id, b.customer_id, b.service_id, to_char(b.booking_date, 'YYYY-MM-DD'), to_char(b.booking_time, 'HH24:MI:SS'),
	b.notes, b.status, b.created_at,
	c.id, c.full_name, c.phone, c.email, c.address, c.source, c.created_at,
	s.id, s.name, s.description, s.base_price, s.duration_minutes, s.is_active, s.created_at
`

const getBookingJoins = `
	FROM bookings b
	LEFT JOIN customers c ON b.customer_id = c.id
	LEFT JOIN services s ON b.service_id = s.id
`

// scanBookingRow scans a booking and its joined customer and service.
// Either join may be missing; the related pointer is then left nil.
func scanBookingRow(row scanner) (*models.Booking, error) {
	var booking models.Booking

	var customerID, customerName, customerPhone, customerEmail, customerAddress, customerSource sql.NullString
	var customerCreated sql.NullTime

	var serviceID, serviceName, serviceDesc sql.NullString
	var servicePrice sql.NullFloat64
	var serviceDuration sql.NullInt64
	var serviceActive sql.NullBool
	var serviceCreated sql.NullTime

	err := row.Scan(
		&booking.ID, &booking.CustomerID, &booking.ServiceID, &booking.BookingDate, &booking.BookingTime,
		&booking.Notes, &booking.Status, &booking.CreatedAt,
		&customerID, &customerName, &customerPhone, &customerEmail, &customerAddress, &customerSource, &customerCreated,
		&serviceID, &serviceName, &serviceDesc, &servicePrice, &serviceDuration, &serviceActive, &serviceCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning booking with details: %v", ErrDatabaseError, err)
	}

	if customerID.Valid {
		booking.Customer = &models.Customer{
			ID:        customerID.String,
			FullName:  customerName.String,
			Phone:     customerPhone.String,
			Email:     nullStringPtr(customerEmail),
			Address:   nullStringPtr(customerAddress),
			Source:    nullStringPtr(customerSource),
			CreatedAt: customerCreated.Time,
		}
	}
	if serviceID.Valid {
		service := &models.Service{
			ID:          serviceID.String,
			Name:        serviceName.String,
			Description: nullStringPtr(serviceDesc),
			IsActive:    serviceActive.Bool,
			CreatedAt:   serviceCreated.Time,
		}
		if servicePrice.Valid {
			service.BasePrice = &servicePrice.Float64
		}
		if serviceDuration.Valid {
			d := int(serviceDuration.Int64)
			service.DurationMinutes = &d
		}
		booking.Service = service
	}
	return &booking, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *bookingRepository) CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `INSERT INTO bookings (id, customer_id, service_id, booking_date, booking_time, notes, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at`
	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		booking.ID, booking.CustomerID, booking.ServiceID, booking.BookingDate, booking.BookingTime,
		booking.Notes, booking.Status, booking.CreatedAt,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, wrapWriteError(err, "creating booking")
	}
	return booking, nil
}

func (r *bookingRepository) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.id = $1"
	return scanBookingRow(r.db.QueryRowContext(ctx, query, id))
}

// GetBookings lists bookings by booking date, newest first. A nil status lists every booking.
func (r *bookingRepository) GetBookings(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectBookingFields + getBookingJoins)

	var args []interface{}
	if status != nil && *status != "" {
		queryBuilder.WriteString(" WHERE b.status = $1")
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY b.booking_date DESC, b.booking_time DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying bookings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, scanErr := scanBookingRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating booking rows: %v", ErrDatabaseError, err)
	}
	return bookings, nil
}

// GetStatusForUpdate reads the current status and locks the row until the
// surrounding transaction ends.
func (r *bookingRepository) GetStatusForUpdate(ctx context.Context, executor SQLExecutor, id string) (models.BookingStatus, error) {
	var status models.BookingStatus
	err := executor.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: reading status of booking %s: %v", ErrDatabaseError, id, err)
	}
	return status, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, executor SQLExecutor, id string, status models.BookingStatus) error {
	result, err := executor.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%w: updating status of booking %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) CountBookings(ctx context.Context, status *models.BookingStatus) (int, error) {
	if status == nil {
		return countRows(ctx, r.db, `SELECT COUNT(*) FROM bookings`)
	}
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM bookings WHERE status = $1`, *status)
}
