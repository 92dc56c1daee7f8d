package services

import (
	"context"
	"sync"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/pkg/utils"
)

// StatsService computes the dashboard counters.
type StatsService interface {
	DashboardStats(ctx context.Context) models.DashboardStats
}

type statsService struct {
	bookingRepo  repositories.BookingRepository
	customerRepo repositories.CustomerRepository
	serviceRepo  repositories.ServiceRepository
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(br repositories.BookingRepository, cr repositories.CustomerRepository, sr repositories.ServiceRepository) StatsService {
	return &statsService{bookingRepo: br, customerRepo: cr, serviceRepo: sr}
}

// DashboardStats runs the four counting queries concurrently. A failed query is
// reported on its own counter and does not affect the others.
func (s *statsService) DashboardStats(ctx context.Context) models.DashboardStats {
	pending := models.BookingStatusPending
	var stats models.DashboardStats

	counters := []struct {
		name  string
		into  *models.StatCount
		count func(context.Context) (int, error)
	}{
		{"total_bookings", &stats.TotalBookings, func(ctx context.Context) (int, error) { return s.bookingRepo.CountBookings(ctx, nil) }},
		{"pending_bookings", &stats.PendingBookings, func(ctx context.Context) (int, error) { return s.bookingRepo.CountBookings(ctx, &pending) }},
		{"total_customers", &stats.TotalCustomers, s.customerRepo.CountCustomers},
		{"active_services", &stats.ActiveServices, s.serviceRepo.CountActiveServices},
	}

	var wg sync.WaitGroup
	for _, c := range counters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := c.count(ctx)
			if err != nil {
				utils.LogError(err, "StatsService: counter failed", map[string]interface{}{"counter": c.name})
				*c.into = models.StatCount{Error: "unavailable"}
				return
			}
			*c.into = models.StatCount{Value: n}
		}()
	}
	wg.Wait()
	return stats
}
