package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeclean_backend/internal/models"
)

// State is the wizard's position in the booking flow.
type State string

const (
	StateSelectingService  State = "selecting_service"
	StateSelectingSchedule State = "selecting_schedule"
	StateEnteringDetails   State = "entering_details"
	StateSubmitting        State = "submitting"
	StateConfirmed         State = "confirmed"
	StateFailed            State = "failed"
)

var (
	ErrUnknownService       = errors.New("unknown service")
	ErrDateUnavailable      = errors.New("date cannot be booked")
	ErrDateRequired         = errors.New("choose a date before a time slot")
	ErrUnknownSlot          = errors.New("unknown time slot")
	ErrSlotUnavailable      = errors.New("time slot is not available")
	ErrSubmissionInProgress = errors.New("booking submission already in progress")
	ErrAlreadyConfirmed     = errors.New("booking already confirmed")
	ErrSubmissionFailed     = errors.New("booking submission failed")
)

// SubmissionFailedMessage is shown to the customer whenever a write fails.
const SubmissionFailedMessage = "There was an error processing your booking. Please try again."

// Selection is the raw choice record of the first two steps.
type Selection struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // slot label, e.g. "02:00 PM"
}

// Step derives the progress indicator from a selection:
// 1 until a service is chosen, 2 until both date and time are chosen, then 3.
func Step(sel Selection) int {
	switch {
	case strings.TrimSpace(sel.ServiceID) == "":
		return 1
	case strings.TrimSpace(sel.Date) == "" || strings.TrimSpace(sel.Time) == "":
		return 2
	default:
		return 3
	}
}

func stateForStep(step int) State {
	switch step {
	case 1:
		return StateSelectingService
	case 2:
		return StateSelectingSchedule
	default:
		return StateEnteringDetails
	}
}

// Draft is a full form post: the selection plus contact details.
type Draft struct {
	Selection
	Details Details `json:"details"`
}

// Store persists the records produced by a submission.
// InsertCustomer must succeed before InsertBooking is called.
type Store interface {
	InsertCustomer(ctx context.Context, customer *models.Customer) (string, error)
	InsertBooking(ctx context.Context, booking *models.Booking) (string, error)
}

// Confirmation is the hand-off payload of a successful submission.
type Confirmation struct {
	Reference   string         `json:"booking_reference"`
	BookingID   string         `json:"booking_id"`
	Service     ServiceSummary `json:"service"`
	Date        string         `json:"date"`
	DisplayDate string         `json:"display_date"`
	Time        string         `json:"time"`
	Customer    Details        `json:"customer"`
}

// Reference is the human-readable booking reference: the first eight
// characters of the identifier, upper-cased.
func Reference(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// Wizard tracks one customer's pass through the booking flow.
// It is not safe for concurrent use.
type Wizard struct {
	options  []ServiceOption
	calendar Calendar

	selection Selection
	service   ServiceOption
	day       time.Time
	details   Details

	rejected FieldErrors // constraint violations from the latest selection attempts
	errors   FieldErrors // error set computed by the latest submission attempt

	outcome      State // "", StateSubmitting, StateConfirmed or StateFailed
	confirmation *Confirmation
}

// New starts a wizard over the offered service options.
func New(options []ServiceOption, calendar Calendar) *Wizard {
	return &Wizard{
		options:  options,
		calendar: calendar,
		rejected: FieldErrors{},
		errors:   FieldErrors{},
	}
}

// Options returns the service options offered in the first step.
func (w *Wizard) Options() []ServiceOption { return w.options }

// Selection returns the current choices.
func (w *Wizard) Selection() Selection { return w.selection }

// Details returns the current contact details as entered.
func (w *Wizard) Details() Details { return w.details }

// Step is recomputed from the current selection on every call.
func (w *Wizard) Step() int { return Step(w.selection) }

// State reports the outcome state when one is set, otherwise the state implied by Step.
func (w *Wizard) State() State {
	if w.outcome != "" {
		return w.outcome
	}
	return stateForStep(w.Step())
}

// Errors returns the field errors of the latest submission attempt.
func (w *Wizard) Errors() FieldErrors { return w.errors.Clone() }

// ClearFieldError drops a single field's message, leaving the others.
func (w *Wizard) ClearFieldError(field string) {
	delete(w.errors, field)
}

// Confirmation is set once the wizard reaches StateConfirmed.
func (w *Wizard) Confirmation() *Confirmation { return w.confirmation }

func (w *Wizard) beginEdit() error {
	switch w.outcome {
	case StateSubmitting:
		return ErrSubmissionInProgress
	case StateConfirmed:
		return ErrAlreadyConfirmed
	case StateFailed:
		w.outcome = ""
	}
	return nil
}

func (w *Wizard) accept(field string) {
	delete(w.rejected, field)
	delete(w.errors, field)
}

// SelectService picks a service option by id. An empty id clears the choice.
func (w *Wizard) SelectService(id string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		w.selection.ServiceID = ""
		w.service = nil
		delete(w.rejected, FieldService)
		return nil
	}
	for _, option := range w.options {
		if option.OptionID() == id {
			w.selection.ServiceID = id
			w.service = option
			w.accept(FieldService)
			return nil
		}
	}
	w.selection.ServiceID = ""
	w.service = nil
	w.rejected[FieldService] = selectionMessages[FieldService]
	return fmt.Errorf("%w: %s", ErrUnknownService, id)
}

// SelectDate picks the cleaning day (YYYY-MM-DD). An empty value clears it.
func (w *Wizard) SelectDate(raw string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		w.selection.Date = ""
		w.day = time.Time{}
		delete(w.rejected, FieldDate)
		return nil
	}
	w.selection.Date = ""
	w.day = time.Time{}
	day, err := w.calendar.ParseDay(raw)
	if err != nil {
		w.rejected[FieldDate] = selectionMessages[FieldDate]
		return err
	}
	if !w.calendar.IsSelectableDate(day) {
		w.rejected[FieldDate] = "Please select an available date"
		return fmt.Errorf("%w: %s", ErrDateUnavailable, day.Format(DateLayout))
	}
	w.selection.Date = day.Format(DateLayout)
	w.day = day
	w.accept(FieldDate)
	return nil
}

// SelectTime picks a slot by label. A date has to be chosen first.
func (w *Wizard) SelectTime(label string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		w.selection.Time = ""
		delete(w.rejected, FieldTime)
		return nil
	}
	w.selection.Time = ""
	slot, ok := FindSlot(label)
	if !ok {
		w.rejected[FieldTime] = selectionMessages[FieldTime]
		return fmt.Errorf("%w: %s", ErrUnknownSlot, label)
	}
	if w.day.IsZero() {
		return ErrDateRequired
	}
	if !SlotSelectable(slot, true) {
		w.rejected[FieldTime] = "Please select an available time slot"
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, label)
	}
	w.selection.Time = slot.Label
	w.accept(FieldTime)
	return nil
}

// SetDetails replaces the contact details. Errors of fields whose value
// changed are cleared; other messages stay.
func (w *Wizard) SetDetails(d Details) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if d.FullName != w.details.FullName {
		delete(w.errors, FieldFullName)
	}
	if d.Phone != w.details.Phone {
		delete(w.errors, FieldPhone)
	}
	if d.Address != w.details.Address {
		delete(w.errors, FieldAddress)
	}
	w.details = d
	return nil
}

// Apply loads a complete draft and returns the constraint violations of the
// selections it contained (unknown service, closed day, unavailable slot).
func (w *Wizard) Apply(d Draft) (FieldErrors, error) {
	if err := w.beginEdit(); err != nil {
		return nil, err
	}
	_ = w.SelectService(d.ServiceID)
	_ = w.SelectDate(d.Date)
	_ = w.SelectTime(d.Time)
	_ = w.SetDetails(d.Details)
	return w.rejected.Clone(), nil
}

// Validate recomputes the complete error set. It is called by Submit and
// never touches the network.
func (w *Wizard) Validate() FieldErrors {
	errs := validateDetails(w.details)
	if w.service == nil {
		errs[FieldService] = selectionMessages[FieldService]
	}
	if w.day.IsZero() {
		errs[FieldDate] = selectionMessages[FieldDate]
	} else if !w.calendar.IsSelectableDate(w.day) {
		// the day passed since it was picked
		errs[FieldDate] = "Please select an available date"
	}
	if w.selection.Time == "" {
		errs[FieldTime] = selectionMessages[FieldTime]
	}
	for field, msg := range w.rejected {
		errs[field] = msg
	}
	w.errors = errs
	return errs.Clone()
}

// Submit validates the form and, when it is complete, writes the customer and
// then the booking through store. On failure the wizard moves to StateFailed and
// keeps every entered value so the customer can simply submit again.
func (w *Wizard) Submit(ctx context.Context, store Store) (*Confirmation, error) {
	switch w.outcome {
	case StateSubmitting:
		return nil, ErrSubmissionInProgress
	case StateConfirmed:
		return nil, ErrAlreadyConfirmed
	}

	if errs := w.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	clock, err := LabelToClock(w.selection.Time)
	if err != nil {
		return nil, &ValidationError{Fields: FieldErrors{FieldTime: selectionMessages[FieldTime]}}
	}

	w.outcome = StateSubmitting
	details := w.details.trimmed()

	customer := &models.Customer{
		FullName: details.FullName,
		Phone:    details.Phone,
		Email:    nullable(details.Email),
		Address:  nullable(details.Address),
		Source:   nullable(models.CustomerSourceWebsite),
	}
	customerID, err := store.InsertCustomer(ctx, customer)
	if err != nil {
		w.outcome = StateFailed
		return nil, fmt.Errorf("%w: inserting customer: %w", ErrSubmissionFailed, err)
	}

	booking := &models.Booking{
		CustomerID:  customerID,
		ServiceID:   catalogForeignKey(w.service),
		BookingDate: w.day.Format(DateLayout),
		BookingTime: clock,
		Notes:       nullable(details.Notes),
		Status:      models.BookingStatusPending,
	}
	bookingID, err := store.InsertBooking(ctx, booking)
	if err != nil {
		w.outcome = StateFailed
		return nil, fmt.Errorf("%w: inserting booking: %w", ErrSubmissionFailed, err)
	}

	w.confirmation = &Confirmation{
		Reference:   Reference(bookingID),
		BookingID:   bookingID,
		Service:     w.service.Summary(),
		Date:        w.day.Format(DateLayout),
		DisplayDate: FormatLongDate(w.day),
		Time:        w.selection.Time,
		Customer:    details,
	}
	w.outcome = StateConfirmed
	return w.confirmation, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
