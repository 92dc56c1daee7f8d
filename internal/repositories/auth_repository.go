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

// AuthRepository defines the interface for administrator account operations.
type AuthRepository interface {
	CreateAdmin(ctx context.Context, executor SQLExecutor, admin *models.AdminUser) (*models.AdminUser, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) // includes the password hash
	FindAdminByID(ctx context.Context, id string) (*models.AdminUser, error)
}

// authRepository implements the AuthRepository interface.
type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const selectAdminFields = `id, email, password_hash, full_name, is_active, created_at`

func scanAdmin(row scanner) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning admin user: %v", ErrDatabaseError, err)
	}
	return &a, nil
}

// CreateAdmin inserts an administrator. Email is stored lower-cased and must be unique.
func (r *authRepository) CreateAdmin(ctx context.Context, executor SQLExecutor, admin *models.AdminUser) (*models.AdminUser, error) {
	query := `INSERT INTO admin_users (id, email, password_hash, full_name, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	admin.ID = uuid.NewString()
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	admin.CreatedAt = time.Now()

	err := executor.QueryRowContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.FullName, admin.IsActive, admin.CreatedAt,
	).Scan(&admin.CreatedAt)
	if err != nil {
		return nil, wrapWriteError(err, "creating admin user")
	}
	return admin, nil
}

func (r *authRepository) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := "SELECT " + selectAdminFields + " FROM admin_users WHERE email = $1"
	return scanAdmin(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *authRepository) FindAdminByID(ctx context.Context, id string) (*models.AdminUser, error) {
	query := "SELECT " + selectAdminFields + " FROM admin_users WHERE id = $1"
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}
