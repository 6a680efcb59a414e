// Package validation collects field-level constraint violations for request payloads.
package validation

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"jobboard/internal/errcode"
)

// Errors is an ordered list of field violations.
type Errors []errcode.FieldError

// Add records a violation.
func (e *Errors) Add(field, message string) {
	*e = append(*e, errcode.FieldError{Field: field, Message: message})
}

// Has reports whether field already has a violation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when empty, otherwise a validation error.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return errcode.Validation(e)
}

// Required checks that value is not blank.
func (e *Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, fmt.Sprintf("The %s field is required.", label(field)))
		return false
	}
	return true
}

// MaxLen checks the character length of value.
func (e *Errors) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, fmt.Sprintf("The %s may not be greater than %d characters.", label(field), max))
	}
}

// MinLen checks the character length of value.
func (e *Errors) MinLen(field, value string, min int) {
	if utf8.RuneCountInString(value) < min {
		e.Add(field, fmt.Sprintf("The %s must be at least %d characters.", label(field), min))
	}
}

// OneOf checks that value is in allowed.
func (e *Errors) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		e.Add(field, fmt.Sprintf("The selected %s is invalid.", label(field)))
	}
}

// Email checks for a bare address such as user@example.com.
func (e *Errors) Email(field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(addr.Address, "@") {
		e.Add(field, fmt.Sprintf("The %s must be a valid email address.", label(field)))
	}
}

// NonNegative checks a numeric value.
func (e *Errors) NonNegative(field string, value float64) {
	if value < 0 {
		e.Add(field, fmt.Sprintf("The %s must be at least 0.", label(field)))
	}
}

// Date parses YYYY-MM-DD or RFC 3339 input into a UTC midnight date.
func Date(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// AfterToday checks that value is a date strictly after the UTC calendar day of now.
func (e *Errors) AfterToday(field, value string, now time.Time) (time.Time, bool) {
	date, ok := Date(value)
	if !ok {
		e.Add(field, fmt.Sprintf("The %s is not a valid date.", label(field)))
		return time.Time{}, false
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		e.Add(field, fmt.Sprintf("The %s must be a date after today.", label(field)))
		return time.Time{}, false
	}
	return date, true
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
