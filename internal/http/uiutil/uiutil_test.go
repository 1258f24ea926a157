package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(1941, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1941-03-09", FormatDate(&d))
	assert.Empty(t, FormatDate(nil))
	assert.Empty(t, FormatDate(&time.Time{}))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "49.90 GBP", FormatMoney(49.9, "GBP"))
	assert.Equal(t, "0.00", FormatMoney(0, ""))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Healthcare professional", Humanize("healthcare_professional"))
	assert.Equal(t, "Interview candidates", Humanize("interview-candidates"))
	assert.Empty(t, Humanize("  "))
}

func TestTruncateWithEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "Medic…", TruncateWithEllipsis("Medication round", 6))
	assert.Equal(t, "…", TruncateWithEllipsis("abc", 1))
}
