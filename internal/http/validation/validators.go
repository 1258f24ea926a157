// Package validation checks submitted form values and collects per-field messages.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// MinLength validates that a field has at least minLen characters. Whitespace counts.
func MinLength(fieldName string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return fmt.Sprintf("%s must be at least %d characters.", fieldName, minLen)
		}
		return ""
	}
}

// IntRange validates that a field is a valid integer between minVal and maxVal.
// An empty value passes; combine with Required when the field is mandatory.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fieldName + " must be a whole number."
		}
		if i < minVal || i > maxVal {
			return fmt.Sprintf("%s must be between %d and %d.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// FloatRange validates that a field is a number between minVal and maxVal.
// An empty value passes.
func FloatRange(fieldName string, minVal, maxVal float64) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fieldName + " must be a number."
		}
		if f < minVal || f > maxVal {
			return fmt.Sprintf("%s must be between %g and %g.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
// An empty value passes.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// Email validates an optional email address.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if addr, err := mail.ParseAddress(v); err != nil || addr.Address != v {
			return "Enter a valid " + strings.ToLower(fieldName) + "."
		}
		return ""
	}
}

// HTTPURL validates an optional http(s) URL.
func HTTPURL(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		p, err := url.Parse(v)
		if err != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return fieldName + " must be a valid http(s) URL."
		}
		return ""
	}
}

// Date validates an optional YYYY-MM-DD date, the value format of date inputs.
func Date(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return fieldName + " must be a date (YYYY-MM-DD)."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Add records a message for field unless one is already present.
func (fv *FieldValidator) Add(field, message string) *FieldValidator {
	if _, ok := fv.errors[field]; !ok && message != "" {
		fv.errors[field] = message
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
