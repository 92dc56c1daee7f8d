package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean_backend/internal/repositories"
)

func TestDashboardStatsReportsFailuresPerCounter(t *testing.T) {
	d := newTestDeps(t)
	d.mock.MatchExpectationsInOrder(false)

	d.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	d.mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM bookings$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	d.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WillReturnError(errors.New("statement timeout"))
	d.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM services WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	svc := NewStatsService(
		repositories.NewBookingRepository(d.db),
		repositories.NewCustomerRepository(d.db),
		repositories.NewServiceRepository(d.db),
	)
	stats := svc.DashboardStats(context.Background())

	assert.Equal(t, 12, stats.TotalBookings.Value)
	assert.Equal(t, 3, stats.PendingBookings.Value)
	assert.Equal(t, 4, stats.ActiveServices.Value)
	assert.Equal(t, 0, stats.TotalCustomers.Value)
	assert.NotEmpty(t, stats.TotalCustomers.Error)
	assert.Empty(t, stats.TotalBookings.Error)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestListCustomersSearch(t *testing.T) {
	d := newTestDeps(t)
	now := time.Now()
	d.mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone", "email", "address", "source", "created_at"}).
			AddRow("c-1", "Maria Lopez", "555-0100", "maria@example.com", "12 Elm Street", "Website", now).
			AddRow("c-2", "Tom Hardy", "555-0101", nil, "4 Oak Avenue", "Website", now).
			AddRow("c-3", "Ann Lee", "555-0102", "ann@elmhurst.org", nil, "Website", now))

	customers, err := NewCustomerService(repositories.NewCustomerRepository(d.db)).ListCustomers(context.Background(), "ELM")
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "c-1", customers[0].ID)
	assert.Equal(t, "c-3", customers[1].ID)
}
