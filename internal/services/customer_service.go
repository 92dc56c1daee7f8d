package services

import (
	"context"
	"fmt"
	"strings"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
)

// CustomerService backs the customers tab.
type CustomerService interface {
	ListCustomers(ctx context.Context, search string) ([]models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(cr repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: cr}
}

// ListCustomers returns customers newest first, narrowed to those whose name,
// phone, email or address contains search (case-insensitive).
func (s *customerService) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	customers, err := s.customerRepo.GetCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return customers, nil
	}
	matched := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if customerMatches(c, term) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func customerMatches(c models.Customer, term string) bool {
	fields := []string{c.FullName, c.Phone}
	if c.Email != nil {
		fields = append(fields, *c.Email)
	}
	if c.Address != nil {
		fields = append(fields, *c.Address)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
