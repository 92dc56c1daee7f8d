package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TrimmedNullString trims s and returns nil when nothing is left.
func TrimmedNullString(s string) *string {
	return NewNullString(strings.TrimSpace(s))
}

// StringOr dereferences p, returning fallback for nil or blank values.
func StringOr(p *string, fallback string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return fallback
	}
	return *p
}
