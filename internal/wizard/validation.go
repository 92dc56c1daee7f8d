package wizard

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Field keys used in FieldErrors.
const (
	FieldFullName = "fullName"
	FieldPhone    = "phone"
	FieldAddress  = "address"
	FieldService  = "service"
	FieldDate     = "date"
	FieldTime     = "time"
)

const minPhoneDigits = 10

// FieldErrors maps a field key to the message shown next to it.
type FieldErrors map[string]string

// Clone returns an independent copy.
func (fe FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// ValidationError is returned by Submit when the form is incomplete.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "booking form is invalid: " + strings.Join(keys, ", ")
}

// AsValidationError unwraps a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Details are the contact fields of the third step.
type Details struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required,loosephone"`
	Email    string `json:"email"`
	Address  string `json:"address" validate:"required"`
	Notes    string `json:"notes"`
}

func (d Details) trimmed() Details {
	return Details{
		FullName: strings.TrimSpace(d.FullName),
		Phone:    strings.TrimSpace(d.Phone),
		Email:    strings.TrimSpace(d.Email),
		Address:  strings.TrimSpace(d.Address),
		Notes:    strings.TrimSpace(d.Notes),
	}
}

var detailMessages = map[string]map[string]string{
	FieldFullName: {"required": "Full name is required"},
	FieldPhone: {
		"required":   "Phone number is required",
		"loosephone": "Please enter a valid phone number",
	},
	FieldAddress: {"required": "Address is required"},
}

var selectionMessages = map[string]string{
	FieldService: "Please select a service",
	FieldDate:    "Please select a date",
	FieldTime:    "Please select a time slot",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("loosephone", func(fl validator.FieldLevel) bool {
		return IsLoosePhone(fl.Field().String())
	})
	return v
}

// IsLoosePhone accepts digits with optional spaces, '+', '(', ')' and '-',
// as long as there are at least ten digits. It is deliberately not E.164.
func IsLoosePhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r) && r <= unicode.MaxASCII:
			digits++
		case r == ' ' || r == '+' || r == '(' || r == ')' || r == '-':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}

// validateDetails returns one message per invalid contact field.
func validateDetails(d Details) FieldErrors {
	out := FieldErrors{}
	err := validate.Struct(d.trimmed())
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := detailMessages[field][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}
