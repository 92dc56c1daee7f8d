package services

import (
	"context"
	"database/sql"
	"fmt"

	"homeclean_backend/internal/events"
	"homeclean_backend/internal/models"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

// --- Booking flow DTOs ---

// WizardProgress describes where a partially filled booking form stands.
type WizardProgress struct {
	Step      int                       `json:"step"`
	State     wizard.State              `json:"state"`
	Selection wizard.Selection          `json:"selection"`
	Rejected  wizard.FieldErrors        `json:"rejected,omitempty"`
	Service   *wizard.ServiceSummary    `json:"service,omitempty"`
	Slots     []wizard.SlotAvailability `json:"slots"`
}

// BookingCreatedPayload is the body of a booking.created event.
type BookingCreatedPayload struct {
	BookingID     string  `json:"booking_id"`
	Reference     string  `json:"booking_reference"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	ServiceName   string  `json:"service_name"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
}

// BookingService runs the public booking flow.
type BookingService interface {
	Progress(ctx context.Context, sel wizard.Selection) (*WizardProgress, error)
	TimeSlots(date string) ([]wizard.SlotAvailability, error)
	SubmitBooking(ctx context.Context, draft wizard.Draft) (*wizard.Confirmation, error)
}

type bookingService struct {
	db           *sql.DB
	customerRepo repositories.CustomerRepository
	bookingRepo  repositories.BookingRepository
	historyRepo  repositories.StatusHistoryRepository
	catalog      CatalogService
	calendar     wizard.Calendar
	publisher    events.Publisher
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(
	db *sql.DB,
	cr repositories.CustomerRepository,
	br repositories.BookingRepository,
	hr repositories.StatusHistoryRepository,
	catalog CatalogService,
	calendar wizard.Calendar,
	publisher events.Publisher,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		db:           db,
		customerRepo: cr,
		bookingRepo:  br,
		historyRepo:  hr,
		catalog:      catalog,
		calendar:     calendar,
		publisher:    publisher,
	}
}

func (s *bookingService) Progress(ctx context.Context, sel wizard.Selection) (*WizardProgress, error) {
	w := wizard.New(s.catalog.OfferedOptions(ctx), s.calendar)
	rejected, err := w.Apply(wizard.Draft{Selection: sel})
	if err != nil {
		return nil, err
	}

	progress := &WizardProgress{
		Step:      w.Step(),
		State:     w.State(),
		Selection: w.Selection(),
		Rejected:  rejected,
	}
	for _, o := range w.Options() {
		if o.OptionID() == progress.Selection.ServiceID {
			summary := o.Summary()
			progress.Service = &summary
			break
		}
	}
	if progress.Selection.Date != "" {
		day, _ := s.calendar.ParseDay(progress.Selection.Date)
		progress.Slots = s.calendar.SlotsFor(&day)
	} else {
		progress.Slots = s.calendar.SlotsFor(nil)
	}
	return progress, nil
}

func (s *bookingService) TimeSlots(date string) ([]wizard.SlotAvailability, error) {
	if date == "" {
		return s.calendar.SlotsFor(nil), nil
	}
	day, err := s.calendar.ParseDay(date)
	if err != nil {
		return nil, err
	}
	return s.calendar.SlotsFor(&day), nil
}

// SubmitBooking validates the draft and, when complete, writes the customer, the
// booking and its first history entry in one transaction.
func (s *bookingService) SubmitBooking(ctx context.Context, draft wizard.Draft) (*wizard.Confirmation, error) {
	w := wizard.New(s.catalog.OfferedOptions(ctx), s.calendar)
	if _, err := w.Apply(draft); err != nil {
		return nil, err
	}
	if errs := w.Validate(); len(errs) > 0 {
		return nil, &wizard.ValidationError{Fields: errs}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: starting transaction: %w", wizard.ErrSubmissionFailed, err)
	}
	defer tx.Rollback() // no-op after commit

	store := &txStore{tx: tx, customerRepo: s.customerRepo, bookingRepo: s.bookingRepo, historyRepo: s.historyRepo}
	confirmation, err := w.Submit(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing booking: %w", wizard.ErrSubmissionFailed, err)
	}

	utils.LogInfo("Booking submitted", map[string]interface{}{"booking_id": confirmation.BookingID, "reference": confirmation.Reference})
	s.publishCreated(ctx, confirmation)
	return confirmation, nil
}

func (s *bookingService) publishCreated(ctx context.Context, c *wizard.Confirmation) {
	payload := BookingCreatedPayload{
		BookingID:     c.BookingID,
		Reference:     c.Reference,
		CustomerName:  c.Customer.FullName,
		CustomerPhone: c.Customer.Phone,
		CustomerEmail: utils.NewNullString(c.Customer.Email),
		ServiceName:   c.Service.Name,
		Date:          c.Date,
		Time:          c.Time,
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeBookingCreated, c.BookingID, payload)); err != nil {
		utils.LogError(err, "BookingService: failed to publish booking.created", map[string]interface{}{"booking_id": c.BookingID})
	}
}

// txStore lets the wizard write through the repositories inside one transaction.
type txStore struct {
	tx           *sql.Tx
	customerRepo repositories.CustomerRepository
	bookingRepo  repositories.BookingRepository
	historyRepo  repositories.StatusHistoryRepository
}

func (st *txStore) InsertCustomer(ctx context.Context, customer *models.Customer) (string, error) {
	created, err := st.customerRepo.CreateCustomer(ctx, st.tx, customer)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (st *txStore) InsertBooking(ctx context.Context, booking *models.Booking) (string, error) {
	created, err := st.bookingRepo.CreateBooking(ctx, st.tx, booking)
	if err != nil {
		return "", err
	}
	entry := &models.BookingStatusHistoryEntry{BookingID: created.ID, NewStatus: created.Status}
	if _, err := st.historyRepo.AppendEntry(ctx, st.tx, entry); err != nil {
		return "", err
	}
	return created.ID, nil
}
