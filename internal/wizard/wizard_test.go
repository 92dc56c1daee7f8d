package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean_backend/internal/models"
)

type fakeStore struct {
	customerErr error
	bookingErr  error
	customers   []*models.Customer
	bookings    []*models.Booking
}

func (f *fakeStore) InsertCustomer(_ context.Context, c *models.Customer) (string, error) {
	if f.customerErr != nil {
		return "", f.customerErr
	}
	f.customers = append(f.customers, c)
	return "cust-1", nil
}

func (f *fakeStore) InsertBooking(_ context.Context, b *models.Booking) (string, error) {
	if f.bookingErr != nil {
		return "", f.bookingErr
	}
	f.bookings = append(f.bookings, b)
	return "3f9a1c2e-7b44-4d1e-9a0b-2c5d8e6f1a23", nil
}

func validDetails() Details {
	return Details{FullName: "Maria Lopez", Phone: "(123) 456-7890", Address: "12 Elm Street", Notes: "Side door"}
}

func readyWizard(t *testing.T, options []ServiceOption) *Wizard {
	t.Helper()
	w := New(options, fixedCalendar())
	require.NoError(t, w.SelectService(options[0].OptionID()))
	require.NoError(t, w.SelectDate("2026-10-19"))
	require.NoError(t, w.SelectTime("02:00 PM"))
	require.NoError(t, w.SetDetails(validDetails()))
	return w
}

func TestStep(t *testing.T) {
	tests := []struct {
		sel  Selection
		want int
	}{
		{Selection{}, 1},
		{Selection{Date: "2026-10-19", Time: "09:00 AM"}, 1},
		{Selection{ServiceID: "regular"}, 2},
		{Selection{ServiceID: "regular", Date: "2026-10-19"}, 2},
		{Selection{ServiceID: "regular", Time: "09:00 AM"}, 2},
		{Selection{ServiceID: "regular", Date: "2026-10-19", Time: "09:00 AM"}, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Step(tt.sel), "%+v", tt.sel)
	}
}

func TestWizardStepFollowsSelection(t *testing.T) {
	w := New(FallbackServices(), fixedCalendar())
	assert.Equal(t, 1, w.Step())
	assert.Equal(t, StateSelectingService, w.State())

	require.NoError(t, w.SelectService("deep"))
	assert.Equal(t, StateSelectingSchedule, w.State())

	require.NoError(t, w.SelectDate("2026-10-19"))
	require.NoError(t, w.SelectTime("09:00 AM"))
	assert.Equal(t, 3, w.Step())
	assert.Equal(t, StateEnteringDetails, w.State())

	// going back is just clearing a selection
	require.NoError(t, w.SelectService(""))
	assert.Equal(t, 1, w.Step())
}

func TestSelectionConstraints(t *testing.T) {
	w := New(FallbackServices(), fixedCalendar())

	assert.ErrorIs(t, w.SelectService("windows"), ErrUnknownService)
	assert.ErrorIs(t, w.SelectTime("09:00 AM"), ErrDateRequired)
	assert.ErrorIs(t, w.SelectDate("2026-10-18"), ErrDateUnavailable)
	assert.ErrorIs(t, w.SelectDate("2026-10-01"), ErrDateUnavailable)
	assert.ErrorIs(t, w.SelectDate("tomorrow"), ErrInvalidDate)

	require.NoError(t, w.SelectDate("2026-10-19"))
	assert.ErrorIs(t, w.SelectTime("10:00 AM"), ErrSlotUnavailable)
	assert.ErrorIs(t, w.SelectTime("07:00 AM"), ErrUnknownSlot)
	assert.Empty(t, w.Selection().Time)
}

func TestSubmitEmptyFormReportsEveryField(t *testing.T) {
	store := &fakeStore{}
	w := New(FallbackServices(), fixedCalendar())

	conf, err := w.Submit(context.Background(), store)
	assert.Nil(t, conf)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, FieldErrors{
		FieldFullName: "Full name is required",
		FieldPhone:    "Phone number is required",
		FieldAddress:  "Address is required",
		FieldService:  "Please select a service",
		FieldDate:     "Please select a date",
		FieldTime:     "Please select a time slot",
	}, ve.Fields)
	assert.Empty(t, store.customers)
	assert.Empty(t, store.bookings)
	assert.Len(t, w.Errors(), 6)
}

func TestEditingAFieldClearsOnlyItsError(t *testing.T) {
	w := New(FallbackServices(), fixedCalendar())
	_, _ = w.Submit(context.Background(), &fakeStore{})
	require.Len(t, w.Errors(), 6)

	require.NoError(t, w.SetDetails(Details{FullName: "M"}))
	errs := w.Errors()
	assert.NotContains(t, errs, FieldFullName)
	assert.Contains(t, errs, FieldPhone)
	assert.Contains(t, errs, FieldAddress)

	w.ClearFieldError(FieldPhone)
	assert.NotContains(t, w.Errors(), FieldPhone)
}

func TestSubmitWithFallbackService(t *testing.T) {
	store := &fakeStore{}
	w := readyWizard(t, FallbackServices())

	conf, err := w.Submit(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, store.customers, 1)
	c := store.customers[0]
	assert.Equal(t, "Maria Lopez", c.FullName)
	assert.Nil(t, c.Email)
	require.NotNil(t, c.Source)
	assert.Equal(t, models.CustomerSourceWebsite, *c.Source)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	assert.Equal(t, "cust-1", b.CustomerID)
	assert.Nil(t, b.ServiceID, "fallback services are never written as a foreign key")
	assert.Equal(t, "2026-10-19", b.BookingDate)
	assert.Equal(t, "14:00:00", b.BookingTime)
	assert.Equal(t, models.BookingStatusPending, b.Status)

	assert.Equal(t, "3F9A1C2E", conf.Reference)
	assert.Equal(t, "Monday, October 19, 2026", conf.DisplayDate)
	assert.Equal(t, "02:00 PM", conf.Time)
	assert.Equal(t, "Regular Cleaning", conf.Service.Name)
	assert.Equal(t, StateConfirmed, w.State())

	_, err = w.Submit(context.Background(), store)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.ErrorIs(t, w.SelectTime("09:00 AM"), ErrAlreadyConfirmed)
}

func TestSubmitWithCatalogService(t *testing.T) {
	store := &fakeStore{}
	options := OptionsFromCatalog([]models.Service{{ID: "svc-7", Name: "Office", IsActive: true}})
	w := readyWizard(t, options)

	_, err := w.Submit(context.Background(), store)
	require.NoError(t, err)
	require.NotNil(t, store.bookings[0].ServiceID)
	assert.Equal(t, "svc-7", *store.bookings[0].ServiceID)
}

func TestCustomerFailureStopsBeforeBooking(t *testing.T) {
	store := &fakeStore{customerErr: errors.New("connection reset")}
	w := readyWizard(t, FallbackServices())

	_, err := w.Submit(context.Background(), store)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Empty(t, store.bookings)
	assert.Equal(t, StateFailed, w.State())

	// everything the customer typed survives for a retry
	assert.Equal(t, validDetails(), w.Details())
	assert.Equal(t, "02:00 PM", w.Selection().Time)

	store.customerErr = nil
	conf, err := w.Submit(context.Background(), store)
	require.NoError(t, err)
	assert.NotEmpty(t, conf.BookingID)
}

func TestBookingFailureReportsGenericError(t *testing.T) {
	store := &fakeStore{bookingErr: errors.New("insert failed")}
	w := readyWizard(t, FallbackServices())

	_, err := w.Submit(context.Background(), store)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Len(t, store.customers, 1)
	assert.Equal(t, StateFailed, w.State())
	assert.Nil(t, w.Confirmation())
}

func TestApplyReturnsRejectedSelections(t *testing.T) {
	w := New(FallbackServices(), fixedCalendar())
	rejected, err := w.Apply(Draft{
		Selection: Selection{ServiceID: "regular", Date: "2026-10-18", Time: "09:00 AM"},
		Details:   validDetails(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Please select an available date", rejected[FieldDate])
	assert.Equal(t, 2, w.Step())

	_, err = w.Submit(context.Background(), &fakeStore{})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, FieldErrors{
		FieldDate: "Please select an available date",
		FieldTime: "Please select a time slot",
	}, ve.Fields)
}

func TestReference(t *testing.T) {
	assert.Equal(t, "ABCDEF12", Reference("abcdef12-3456"))
	assert.Equal(t, "AB", Reference("ab"))
}
