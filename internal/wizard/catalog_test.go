package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homeclean_backend/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   *int
		want string
	}{
		{nil, "Varies"},
		{intPtr(0), "Varies"},
		{intPtr(45), "45 min"},
		{intPtr(60), "1 hour"},
		{intPtr(120), "2 hours"},
		{intPtr(150), "2-3 hours"},
		{intPtr(270), "4-5 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Contact for quote", FormatPrice(nil))
	assert.Equal(t, "Contact for quote", FormatPrice(floatPtr(0)))
	assert.Equal(t, "From $89", FormatPrice(floatPtr(89)))
	assert.Equal(t, "From $89.50", FormatPrice(floatPtr(89.5)))
}

func TestOptionsFromCatalogFallsBack(t *testing.T) {
	options := OptionsFromCatalog(nil)
	assert.Len(t, options, 3)
	for _, o := range options {
		assert.Equal(t, SourceFallback, o.Summary().Source)
		assert.Nil(t, catalogForeignKey(o))
	}

	inactive := []models.Service{{ID: "a", Name: "Windows", IsActive: false}}
	assert.Len(t, OptionsFromCatalog(inactive), 3)
}

func TestOptionsFromCatalogKeepsActiveRows(t *testing.T) {
	rows := []models.Service{
		{ID: "svc-1", Name: "Regular", IsActive: true, BasePrice: floatPtr(95)},
		{ID: "svc-2", Name: "Retired", IsActive: false},
	}
	options := OptionsFromCatalog(rows)
	if assert.Len(t, options, 1) {
		assert.Equal(t, "svc-1", options[0].OptionID())
		assert.Equal(t, "From $95", options[0].Summary().DisplayPrice)
		fk := catalogForeignKey(options[0])
		if assert.NotNil(t, fk) {
			assert.Equal(t, "svc-1", *fk)
		}
	}
}
