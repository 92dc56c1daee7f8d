package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const (
	// DateLayout is the persisted calendar-day encoding of booking_date.
	DateLayout = "2006-01-02"
	// ClockLayout is the persisted 24-hour encoding of booking_time.
	ClockLayout = "15:04:05"
	// SlotLabelLayout is the 12-hour label shown to customers.
	SlotLabelLayout = "03:04 PM"
	// LongDateLayout is used on the confirmation page and booking details.
	LongDateLayout = "Monday, January 2, 2006"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeText = errors.New("invalid time label, expected HH:MM AM/PM")
)

// TimeSlot is one bookable start time.
// Availability is a static flag; it is not derived from existing bookings or staff
// capacity. A real roster-aware availability check would replace it.
type TimeSlot struct {
	Label     string `json:"time"`
	Available bool   `json:"available"`
}

var timeSlots = []TimeSlot{
	{Label: "08:00 AM", Available: true},
	{Label: "09:00 AM", Available: true},
	{Label: "10:00 AM", Available: false},
	{Label: "11:00 AM", Available: true},
	{Label: "12:00 PM", Available: true},
	{Label: "01:00 PM", Available: false},
	{Label: "02:00 PM", Available: true},
	{Label: "03:00 PM", Available: true},
	{Label: "04:00 PM", Available: true},
	{Label: "05:00 PM", Available: false},
}

// TimeSlots returns a copy of the ordered slot list.
func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// FindSlot looks a slot up by its label.
func FindSlot(label string) (TimeSlot, bool) {
	for _, slot := range timeSlots {
		if slot.Label == label {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// SlotSelectable reports whether a slot can be picked: it must be flagged available
// and a date must already be chosen.
func SlotSelectable(slot TimeSlot, dateChosen bool) bool {
	return slot.Available && dateChosen
}

// Calendar evaluates the date constraint in the business time zone.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar returns a Calendar on the wall clock. A nil location means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today is the start of the current day in the business time zone.
func (c Calendar) Today() time.Time {
	clock := c.Now
	if clock == nil {
		clock = time.Now
	}
	return now.With(clock().In(c.location())).BeginningOfDay()
}

// ParseDay parses a YYYY-MM-DD string as a day in the business time zone.
func (c Calendar) ParseDay(raw string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), c.location())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

// IsSelectableDate rejects days before today and every Sunday.
func (c Calendar) IsSelectableDate(day time.Time) bool {
	start := now.With(day.In(c.location())).BeginningOfDay()
	if start.Before(c.Today()) {
		return false
	}
	return start.Weekday() != time.Sunday
}

// SlotAvailability is a time slot evaluated for a particular day.
type SlotAvailability struct {
	TimeSlot
	Selectable bool `json:"selectable"`
}

// SlotsFor evaluates every slot for the chosen day. A nil day, or a day that
// cannot be booked, leaves every slot unselectable.
func (c Calendar) SlotsFor(day *time.Time) []SlotAvailability {
	dateChosen := day != nil && c.IsSelectableDate(*day)
	out := make([]SlotAvailability, 0, len(timeSlots))
	for _, slot := range timeSlots {
		out = append(out, SlotAvailability{TimeSlot: slot, Selectable: SlotSelectable(slot, dateChosen)})
	}
	return out
}

var slotLabelPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// LabelToClock converts a 12-hour label ("02:00 PM") to the persisted
// zero-padded 24-hour form ("14:00:00").
func LabelToClock(label string) (string, error) {
	m := slotLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", ErrInvalidTimeText
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours < 1 || hours > 12 || minutes > 59 {
		return "", ErrInvalidTimeText
	}
	period := strings.ToUpper(m[3])
	if period == "PM" && hours != 12 {
		hours += 12
	}
	if period == "AM" && hours == 12 {
		hours = 0
	}
	return fmt.Sprintf("%02d:%02d:00", hours, minutes), nil
}

// ClockToLabel converts a persisted HH:MM:SS (or HH:MM) time back to its label.
func ClockToLabel(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	layout := ClockLayout
	if len(clock) == len("15:04") {
		layout = "15:04"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return "", fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	return t.Format(SlotLabelLayout), nil
}

// FormatLongDate renders a day like "Monday, October 19, 2026".
func FormatLongDate(day time.Time) string {
	return day.Format(LongDateLayout)
}
