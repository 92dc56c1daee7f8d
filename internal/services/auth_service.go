package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/session"
	"homeclean_backend/pkg/utils"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("session is invalid or has ended")
	ErrAdminNotFound      = errors.New("admin user not found")
)

// --- Data Transfer Objects (DTOs) ---

// AuthResponse DTO
type AuthResponse struct {
	Admin       *models.AdminUser `json:"admin"`
	AccessToken string            `json:"access_token"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// AuthService handles administrator sign-in and sessions.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*session.Session, error)
	CurrentAdmin(ctx context.Context, sess *session.Session) (*models.AdminUser, error)
	Logout(ctx context.Context, sess *session.Session) error
	EnsureBootstrapAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	authRepo    repositories.AuthRepository
	db          repositories.SQLExecutor
	signer      *utils.TokenSigner
	revocations session.RevocationStore
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db repositories.SQLExecutor, signer *utils.TokenSigner, revocations session.RevocationStore) AuthService {
	return &authService{authRepo: authRepo, db: db, signer: signer, revocations: revocations}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*AuthResponse, error) {
	admin, err := s.authRepo.FindAdminByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.signer.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	admin.PasswordHash = ""
	return &AuthResponse{Admin: admin, AccessToken: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Authenticate turns a bearer token into a Session, rejecting signed-out tokens.
func (s *authService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidSession
	}
	return session.FromClaims(claims), nil
}

func (s *authService) CurrentAdmin(ctx context.Context, sess *session.Session) (*models.AdminUser, error) {
	admin, err := s.authRepo.FindAdminByID(ctx, sess.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	admin.PasswordHash = ""
	return admin, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.revocations.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// EnsureBootstrapAdmin creates the first administrator when configured. An
// existing account with the same email is left untouched.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	_, err := s.authRepo.FindAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.authRepo.CreateAdmin(ctx, s.db, &models.AdminUser{Email: email, PasswordHash: string(hash), IsActive: true})
	if err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	utils.LogInfo("Bootstrap admin ensured", map[string]interface{}{"email": email})
	return nil
}
