package wizard

import (
	"fmt"
	"math"

	"homeclean_backend/internal/models"
)

// Service option sources.
const (
	SourceCatalog  = "catalog"
	SourceFallback = "fallback"
)

// ServiceOption is a service the customer can pick in the first step.
// It is either a CatalogService (a persisted row) or a FallbackService (built in,
// never persisted). Only CatalogService may be written as a booking's service_id.
type ServiceOption interface {
	OptionID() string
	Summary() ServiceSummary
	isServiceOption()
}

// ServiceSummary is the display snapshot of a service option.
type ServiceSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	BasePrice       *float64 `json:"base_price,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	DisplayDuration string   `json:"display_duration"`
	DisplayPrice    string   `json:"display_price"`
	Source          string   `json:"source"`
}

// CatalogService wraps an active row of the services table.
type CatalogService struct {
	Service models.Service
}

func (s CatalogService) OptionID() string { return s.Service.ID }

func (s CatalogService) Summary() ServiceSummary {
	return ServiceSummary{
		ID:              s.Service.ID,
		Name:            s.Service.Name,
		Description:     s.Service.Description,
		BasePrice:       s.Service.BasePrice,
		DurationMinutes: s.Service.DurationMinutes,
		DisplayDuration: FormatDuration(s.Service.DurationMinutes),
		DisplayPrice:    FormatPrice(s.Service.BasePrice),
		Source:          SourceCatalog,
	}
}

func (CatalogService) isServiceOption() {}

// FallbackService is a built-in service offered while the catalog is empty.
type FallbackService struct {
	ID              string
	Name            string
	Description     string
	BasePrice       float64
	DurationMinutes int
}

func (s FallbackService) OptionID() string { return s.ID }

func (s FallbackService) Summary() ServiceSummary {
	description := s.Description
	price := s.BasePrice
	duration := s.DurationMinutes
	return ServiceSummary{
		ID:              s.ID,
		Name:            s.Name,
		Description:     &description,
		BasePrice:       &price,
		DurationMinutes: &duration,
		DisplayDuration: FormatDuration(&duration),
		DisplayPrice:    FormatPrice(&price),
		Source:          SourceFallback,
	}
}

func (FallbackService) isServiceOption() {}

// FallbackServices returns the three representative services used when the
// catalog has no active entries.
func FallbackServices() []ServiceOption {
	return []ServiceOption{
		FallbackService{
			ID:              "regular",
			Name:            "Regular Cleaning",
			Description:     "Standard home cleaning for weekly or bi-weekly maintenance",
			DurationMinutes: 150,
			BasePrice:       89,
		},
		FallbackService{
			ID:              "deep",
			Name:            "Deep Cleaning",
			Description:     "Thorough cleaning including hard-to-reach areas and appliances",
			DurationMinutes: 270,
			BasePrice:       149,
		},
		FallbackService{
			ID:              "move",
			Name:            "Move-In/Out Cleaning",
			Description:     "Complete cleaning for moving transitions, top to bottom",
			DurationMinutes: 330,
			BasePrice:       199,
		},
	}
}

// OptionsFromCatalog turns active catalog rows into service options, substituting
// the fallback list when none are active.
func OptionsFromCatalog(services []models.Service) []ServiceOption {
	options := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		if !s.IsActive {
			continue
		}
		options = append(options, CatalogService{Service: s})
	}
	if len(options) == 0 {
		return FallbackServices()
	}
	return options
}

// catalogForeignKey returns the service_id to persist for an option.
// Fallback services have no catalog row, so they map to NULL.
func catalogForeignKey(option ServiceOption) *string {
	switch s := option.(type) {
	case CatalogService:
		id := s.Service.ID
		return &id
	default:
		return nil
	}
}

// FormatDuration renders a service duration the way the booking page shows it.
func FormatDuration(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return "Varies"
	}
	hours := *minutes / 60
	mins := *minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%d min", mins)
	case mins == 0 && hours == 1:
		return "1 hour"
	case mins == 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d-%d hours", hours, hours+1)
	}
}

// FormatPrice renders a starting price, or a quote prompt when no price is set.
func FormatPrice(price *float64) string {
	if price == nil || *price <= 0 {
		return "Contact for quote"
	}
	if *price == math.Trunc(*price) {
		return fmt.Sprintf("From $%.0f", *price)
	}
	return fmt.Sprintf("From $%.2f", *price)
}
