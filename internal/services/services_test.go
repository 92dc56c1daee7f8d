package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"homeclean_backend/internal/confirm"
	"homeclean_backend/internal/events"
	"homeclean_backend/internal/guard"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/wizard"
)

const (
	bookingUUID = "3f9a1c2e-7b44-4d1e-9a0b-2c5d8e6f1a23"
	serviceUUID = "7c1d2e3f-4a5b-4c6d-8e9f-0a1b2c3d4e5f"
)

var serviceColumns = []string{"id", "name", "description", "base_price", "duration_minutes", "is_active", "created_at"}

// Wednesday, 14 October 2026.
func testCalendar() wizard.Calendar {
	return wizard.Calendar{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) },
	}
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testDeps struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	publisher *recordingPublisher
	guard     *guard.MemoryGuard
	catalog   CatalogService
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	g := guard.NewMemoryGuard()
	return &testDeps{
		db:        db,
		mock:      mock,
		publisher: &recordingPublisher{},
		guard:     g,
		catalog:   NewCatalogService(repositories.NewServiceRepository(db), db, g, confirm.NewMemoryStore(), time.Minute),
	}
}

func (d *testDeps) bookingService() BookingService {
	return NewBookingService(
		d.db,
		repositories.NewCustomerRepository(d.db),
		repositories.NewBookingRepository(d.db),
		repositories.NewStatusHistoryRepository(d.db),
		d.catalog,
		testCalendar(),
		d.publisher,
	)
}

func (d *testDeps) adminService(policy TransitionPolicy) BookingAdminService {
	return NewBookingAdminService(
		d.db,
		repositories.NewBookingRepository(d.db),
		repositories.NewStatusHistoryRepository(d.db),
		policy,
		d.guard,
		d.publisher,
		time.UTC,
	)
}

// expectEmptyCatalog makes the active-service query return nothing, so the
// booking flow offers the built-in services.
func (d *testDeps) expectEmptyCatalog() {
	d.mock.ExpectQuery(`FROM services WHERE is_active = TRUE`).
		WillReturnRows(sqlmock.NewRows(serviceColumns))
}
