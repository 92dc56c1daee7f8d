package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/models"
)

// CustomerRepository defines the database operations on customers.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (*models.Customer, error)
	GetCustomers(ctx context.Context) ([]models.Customer, error)
	CountCustomers(ctx context.Context) (int, error)
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (*models.Customer, error) {
	query := `INSERT INTO customers (id, full_name, phone, email, address, source, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		customer.ID, customer.FullName, customer.Phone, customer.Email, customer.Address, customer.Source, customer.CreatedAt,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return nil, wrapWriteError(err, "creating customer")
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	query := `SELECT id, full_name, phone, email, address, source, created_at
	          FROM customers
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.Source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, nil
}

func (r *customerRepository) CountCustomers(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM customers`)
}
