package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a form value cannot be parsed as a number.
var ErrNotNumeric = errors.New("value is not numeric")

// ParseOptionalFloat parses an optional decimal form value.
// Blank input yields nil; anything else must parse as a float.
func ParseOptionalFloat(raw *string) (*float64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, ErrNotNumeric
	}
	return &value, nil
}

// ParseOptionalInt parses an optional whole-number form value.
func ParseOptionalInt(raw *string) (*int, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return nil, ErrNotNumeric
	}
	return &value, nil
}
