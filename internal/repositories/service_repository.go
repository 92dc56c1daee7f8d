package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/models"
)

// ServiceRepository defines the database operations on the service catalog.
type ServiceRepository interface {
	CreateService(ctx context.Context, executor SQLExecutor, service *models.Service) (*models.Service, error)
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	GetServices(ctx context.Context) ([]models.Service, error)        // newest first
	GetActiveServices(ctx context.Context) ([]models.Service, error)  // cheapest first
	UpdateService(ctx context.Context, executor SQLExecutor, service *models.Service) (*models.Service, error)
	DeleteService(ctx context.Context, executor SQLExecutor, id string) error
	CountActiveServices(ctx context.Context) (int, error)
}

type serviceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new instance of ServiceRepository.
func NewServiceRepository(db *sql.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

const selectServiceFields = `id, name, description, base_price, duration_minutes, is_active, created_at`

func scanService(row scanner) (*models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.BasePrice, &s.DurationMinutes, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning service: %v", ErrDatabaseError, err)
	}
	return &s, nil
}

func (r *serviceRepository) CreateService(ctx context.Context, executor SQLExecutor, service *models.Service) (*models.Service, error) {
	query := `INSERT INTO services (id, name, description, base_price, duration_minutes, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	service.ID = uuid.NewString()
	service.CreatedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		service.ID, service.Name, service.Description, service.BasePrice, service.DurationMinutes,
		service.IsActive, service.CreatedAt,
	).Scan(&service.CreatedAt)
	if err != nil {
		return nil, wrapWriteError(err, "creating service")
	}
	return service, nil
}

func (r *serviceRepository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	query := "SELECT " + selectServiceFields + " FROM services WHERE id = $1"
	return scanService(r.db.QueryRowContext(ctx, query, id))
}

func (r *serviceRepository) GetServices(ctx context.Context) ([]models.Service, error) {
	return r.list(ctx, "SELECT "+selectServiceFields+" FROM services ORDER BY created_at DESC")
}

func (r *serviceRepository) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	return r.list(ctx, "SELECT "+selectServiceFields+" FROM services WHERE is_active = TRUE ORDER BY base_price ASC NULLS LAST")
}

func (r *serviceRepository) list(ctx context.Context, query string) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying services: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating service rows: %v", ErrDatabaseError, err)
	}
	return services, nil
}

func (r *serviceRepository) UpdateService(ctx context.Context, executor SQLExecutor, service *models.Service) (*models.Service, error) {
	query := `UPDATE services SET name = $1, description = $2, base_price = $3, duration_minutes = $4, is_active = $5
	          WHERE id = $6
	          RETURNING created_at`
	err := executor.QueryRowContext(ctx, query,
		service.Name, service.Description, service.BasePrice, service.DurationMinutes, service.IsActive, service.ID,
	).Scan(&service.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapWriteError(err, fmt.Sprintf("updating service %s", service.ID))
	}
	return service, nil
}

// DeleteService removes a catalog row. Bookings that referenced it keep their
// row with service_id set to NULL.
func (r *serviceRepository) DeleteService(ctx context.Context, executor SQLExecutor, id string) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting service %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepository) CountActiveServices(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM services WHERE is_active = TRUE`)
}
