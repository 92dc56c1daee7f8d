package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"homeclean_backend/internal/confirm"
	"homeclean_backend/internal/guard"
	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

// --- Custom Service Errors for the catalog ---
var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceValidation  = errors.New("service data validation error")
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
	ErrWriteInProgress    = errors.New("another change to this record is still in progress")
)

// --- Catalog DTOs ---

// ServiceForm mirrors the admin service form. Price and duration arrive as the
// raw text typed into the form and are parsed here.
type ServiceForm struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	BasePrice       *string `json:"base_price"`
	DurationMinutes *string `json:"duration_minutes"`
	IsActive        *bool   `json:"is_active"`
}

// CatalogService manages the service catalog and offers it to the booking flow.
type CatalogService interface {
	OfferedOptions(ctx context.Context) []wizard.ServiceOption
	PublicServices(ctx context.Context) []wizard.ServiceSummary
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, form ServiceForm) (*models.Service, error)
	UpdateService(ctx context.Context, id string, form ServiceForm) (*models.Service, error)
	RequestDelete(ctx context.Context, id string) (*confirm.Ticket, error)
	DeleteService(ctx context.Context, id, confirmationToken string) error
}

type catalogService struct {
	serviceRepo   repositories.ServiceRepository
	db            *sql.DB
	guard         guard.Guard
	confirmations confirm.Store
	confirmTTL    time.Duration
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(sr repositories.ServiceRepository, db *sql.DB, g guard.Guard, cs confirm.Store, confirmTTL time.Duration) CatalogService {
	if confirmTTL <= 0 {
		confirmTTL = 2 * time.Minute
	}
	return &catalogService{serviceRepo: sr, db: db, guard: g, confirmations: cs, confirmTTL: confirmTTL}
}

// OfferedOptions returns the active catalog, or the built-in services when the
// catalog is empty or cannot be read.
func (s *catalogService) OfferedOptions(ctx context.Context) []wizard.ServiceOption {
	services, err := s.serviceRepo.GetActiveServices(ctx)
	if err != nil {
		utils.LogError(err, "CatalogService: active services unavailable, offering fallback services")
		return wizard.FallbackServices()
	}
	return wizard.OptionsFromCatalog(services)
}

func (s *catalogService) PublicServices(ctx context.Context) []wizard.ServiceSummary {
	options := s.OfferedOptions(ctx)
	out := make([]wizard.ServiceSummary, 0, len(options))
	for _, o := range options {
		out = append(out, o.Summary())
	}
	return out
}

func (s *catalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.serviceRepo.GetServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// Upper bounds of the base_price NUMERIC(10,2) and duration_minutes INTEGER columns.
const (
	maxBasePrice       = 99999999.99
	maxDurationMinutes = math.MaxInt32
)

// parseServiceForm applies a form onto a service record.
func parseServiceForm(form ServiceForm, into *models.Service) error {
	if utils.IsEmpty(form.Name) {
		return fmt.Errorf("%w: name is required", ErrServiceValidation)
	}
	price, err := utils.ParseOptionalFloat(form.BasePrice)
	if err != nil {
		return fmt.Errorf("%w: base_price must be a number", ErrServiceValidation)
	}
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: base_price cannot be negative", ErrServiceValidation)
	}
	if price != nil && *price > maxBasePrice {
		return fmt.Errorf("%w: base_price cannot exceed %.2f", ErrServiceValidation, maxBasePrice)
	}
	duration, err := utils.ParseOptionalInt(form.DurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: duration_minutes must be a whole number", ErrServiceValidation)
	}
	if duration != nil && *duration < 0 {
		return fmt.Errorf("%w: duration_minutes cannot be negative", ErrServiceValidation)
	}
	if duration != nil && *duration > maxDurationMinutes {
		return fmt.Errorf("%w: duration_minutes is too large", ErrServiceValidation)
	}

	into.Name = strings.TrimSpace(form.Name)
	into.Description = utils.TrimmedNullString(utils.StringOr(form.Description, ""))
	into.BasePrice = price
	into.DurationMinutes = duration
	if form.IsActive != nil {
		into.IsActive = *form.IsActive
	}
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, form ServiceForm) (*models.Service, error) {
	service := &models.Service{IsActive: true}
	if err := parseServiceForm(form, service); err != nil {
		return nil, err
	}
	created, err := s.serviceRepo.CreateService(ctx, s.db, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return created, nil
}

func (s *catalogService) lock(ctx context.Context, id string) (func(), error) {
	release, err := s.guard.Acquire(ctx, guard.Key("service", id))
	if errors.Is(err, guard.ErrBusy) {
		return nil, ErrWriteInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire write slot: %w", err)
	}
	return release, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id string, form ServiceForm) (*models.Service, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrServiceNotFound
	}
	release, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.serviceRepo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if err := parseServiceForm(form, existing); err != nil {
		return nil, err
	}
	updated, err := s.serviceRepo.UpdateService(ctx, s.db, existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return updated, nil
}

// RequestDelete is the first phase of a delete: it checks the service exists and
// issues a short-lived token that DeleteService must be called with.
func (s *catalogService) RequestDelete(ctx context.Context, id string) (*confirm.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrServiceNotFound
	}
	if _, err := s.serviceRepo.GetServiceByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	ticket, err := s.confirmations.Issue(ctx, guard.Key("service", id), s.confirmTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue delete confirmation: %w", err)
	}
	return ticket, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id, confirmationToken string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrServiceNotFound
	}
	release, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.confirmations.Redeem(ctx, guard.Key("service", id), confirmationToken); err != nil {
		if errors.Is(err, confirm.ErrNotConfirmed) {
			return ErrDeleteNotConfirmed
		}
		return fmt.Errorf("failed to check delete confirmation: %w", err)
	}
	if err := s.serviceRepo.DeleteService(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}
