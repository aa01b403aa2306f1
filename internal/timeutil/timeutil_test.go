package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDayCrossesMidnightInGST(t *testing.T) {
	// 22:30 UTC on Jan 10 is already 02:30 on Jan 11 in Dubai.
	utc := time.Date(2026, 1, 10, 22, 30, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 11, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, GST, start.Location())
}

func TestStartOfMonth(t *testing.T) {
	at := time.Date(2026, 3, 17, 9, 0, 0, 0, GST)
	start := StartOfMonth(at)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, GST), start)
}

func TestEndOfDay(t *testing.T) {
	at := time.Date(2026, 3, 17, 9, 0, 0, 0, GST)
	end := EndOfDay(at)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 17, end.Day())
	assert.True(t, end.After(at))
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, GST)

	assert.Equal(t, 5, DaysOverdue(time.Date(2026, 5, 15, 0, 0, 0, 0, GST), now))
	assert.Equal(t, 0, DaysOverdue(time.Date(2026, 5, 20, 18, 0, 0, 0, GST), now))
	assert.Equal(t, -10, DaysOverdue(time.Date(2026, 5, 30, 0, 0, 0, 0, GST), now))
}

func TestParseInGST(t *testing.T) {
	parsed, err := ParseInGST(DateLayout, "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, GST, parsed.Location())
	assert.Equal(t, "2026-08-01", FormatGST(parsed, DateLayout))

	_, err = ParseInGST(DateLayout, "01/08/2026")
	assert.Error(t, err)
}
