// Package uiutil formats domain values for display.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
	DateLayout             = "2006-01-02"
)

// FormatFriendlyDateTime returns a consistent, user-friendly local timestamp representation.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// FormatDate renders an optional calendar date as YYYY-MM-DD, the value format of date inputs.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatMoney renders an amount with two decimals followed by its currency code.
func FormatMoney(amount float64, currency string) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	if currency = strings.TrimSpace(currency); currency != "" {
		s += " " + currency
	}
	return s
}

// YesNo renders a flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ActiveLabel renders an active flag as a status word.
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// Humanize turns a machine value such as "healthcare_professional" into "Healthcare professional".
func Humanize(value string) string {
	value = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(value))
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
