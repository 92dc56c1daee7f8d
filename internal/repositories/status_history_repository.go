package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/models"
)

// StatusHistoryRepository stores the append-only booking status audit trail.
type StatusHistoryRepository interface {
	AppendEntry(ctx context.Context, executor SQLExecutor, entry *models.BookingStatusHistoryEntry) (*models.BookingStatusHistoryEntry, error)
	GetHistory(ctx context.Context, bookingID string) ([]models.BookingStatusHistoryEntry, error)
}

type statusHistoryRepository struct {
	db *sql.DB
}

// NewStatusHistoryRepository creates a new instance of StatusHistoryRepository.
func NewStatusHistoryRepository(db *sql.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) AppendEntry(ctx context.Context, executor SQLExecutor, entry *models.BookingStatusHistoryEntry) (*models.BookingStatusHistoryEntry, error) {
	query := `INSERT INTO booking_status_history (id, booking_id, old_status, new_status, changed_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING changed_at`
	entry.ID = uuid.NewString()
	entry.ChangedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		entry.ID, entry.BookingID, entry.OldStatus, entry.NewStatus, entry.ChangedAt,
	).Scan(&entry.ChangedAt)
	if err != nil {
		return nil, wrapWriteError(err, fmt.Sprintf("recording status history of booking %s", entry.BookingID))
	}
	return entry, nil
}

// GetHistory returns the entries of one booking, most recent first.
func (r *statusHistoryRepository) GetHistory(ctx context.Context, bookingID string) ([]models.BookingStatusHistoryEntry, error) {
	query := `SELECT id, booking_id, old_status, new_status, changed_at
	          FROM booking_status_history
	          WHERE booking_id = $1
	          ORDER BY changed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying status history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.BookingStatusHistoryEntry{}
	for rows.Next() {
		var e models.BookingStatusHistoryEntry
		var oldStatus sql.NullString
		if err := rows.Scan(&e.ID, &e.BookingID, &oldStatus, &e.NewStatus, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning status history: %v", ErrDatabaseError, err)
		}
		if oldStatus.Valid {
			s := models.BookingStatus(oldStatus.String)
			e.OldStatus = &s
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating status history rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}
