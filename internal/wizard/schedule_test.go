package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 14 October 2026, mid-afternoon.
func fixedCalendar() Calendar {
	return Calendar{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC) },
	}
}

func TestIsSelectableDate(t *testing.T) {
	cal := fixedCalendar()
	tests := []struct {
		day  string
		want bool
	}{
		{"2026-10-13", false}, // yesterday
		{"2026-10-14", true},  // today
		{"2026-10-17", true},  // Saturday
		{"2026-10-18", false}, // Sunday
		{"2026-10-19", true},
	}
	for _, tt := range tests {
		day, err := cal.ParseDay(tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cal.IsSelectableDate(day), tt.day)
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	_, err := fixedCalendar().ParseDay("14/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSlotsFor(t *testing.T) {
	cal := fixedCalendar()

	for _, s := range cal.SlotsFor(nil) {
		assert.False(t, s.Selectable, "no slot is selectable before a date is chosen")
	}

	day, _ := cal.ParseDay("2026-10-19")
	slots := cal.SlotsFor(&day)
	require.Len(t, slots, 10)
	unavailable := map[string]bool{"10:00 AM": true, "01:00 PM": true, "05:00 PM": true}
	for _, s := range slots {
		assert.Equal(t, !unavailable[s.Label], s.Selectable, s.Label)
	}

	sunday, _ := cal.ParseDay("2026-10-18")
	for _, s := range cal.SlotsFor(&sunday) {
		assert.False(t, s.Selectable)
	}
}

func TestLabelClockRoundTrip(t *testing.T) {
	tests := map[string]string{
		"08:00 AM": "08:00:00",
		"12:00 PM": "12:00:00",
		"02:00 PM": "14:00:00",
		"12:30 AM": "00:30:00",
		"5:00 pm":  "17:00:00",
	}
	for label, clock := range tests {
		got, err := LabelToClock(label)
		require.NoError(t, err, label)
		assert.Equal(t, clock, got)
	}

	for _, slot := range TimeSlots() {
		clock, err := LabelToClock(slot.Label)
		require.NoError(t, err)
		back, err := ClockToLabel(clock)
		require.NoError(t, err)
		assert.Equal(t, slot.Label, back)
	}
}

func TestLabelToClockInvalid(t *testing.T) {
	for _, label := range []string{"", "14:00", "13:00 PM", "02:75 AM", "noon"} {
		_, err := LabelToClock(label)
		assert.ErrorIs(t, err, ErrInvalidTimeText, label)
	}
}

func TestClockToLabelShortForm(t *testing.T) {
	got, err := ClockToLabel("09:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00 AM", got)
}

func TestFormatLongDate(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday, October 19, 2026", FormatLongDate(day))
}
