package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// Messages follow the wording API clients already display.
func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func stringMessage(field string) string {
	return fmt.Sprintf("The %s field must be a string.", field)
}

func maxMessage(field string, limit int) string {
	return fmt.Sprintf("The %s field must not be greater than %d characters.", field, limit)
}

func dateMessage(field string) string {
	return fmt.Sprintf("The %s field must be a valid date.", field)
}

// requiredString validates a required string no longer than limit runes.
// Surrounding whitespace is trimmed before checking.
func requiredString(v *ValidationError, field string, raw any, limit int) (string, bool) {
	return checkString(v, field, raw, limit, true)
}

// requiredSecret is requiredString without trimming: whitespace in a password
// is part of the password.
func requiredSecret(v *ValidationError, field string, raw any, limit int) (string, bool) {
	return checkString(v, field, raw, limit, false)
}

func checkString(v *ValidationError, field string, raw any, limit int, trim bool) (string, bool) {
	if raw == nil {
		v.Add(field, requiredMessage(field))
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.Add(field, stringMessage(field))
		return "", false
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		v.Add(field, requiredMessage(field))
		return "", false
	}
	if utf8.RuneCountInString(s) > limit {
		v.Add(field, maxMessage(field, limit))
		return "", false
	}
	return s, true
}

// requiredDate validates a required date in any unambiguous common format.
func requiredDate(v *ValidationError, field string, raw any) (time.Time, bool) {
	if raw == nil {
		v.Add(field, requiredMessage(field))
		return time.Time{}, false
	}
	s, ok := raw.(string)
	if !ok {
		v.Add(field, dateMessage(field))
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		v.Add(field, requiredMessage(field))
		return time.Time{}, false
	}
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		v.Add(field, dateMessage(field))
		return time.Time{}, false
	}
	return t, true
}
