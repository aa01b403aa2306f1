package services

import (
	"testing"
	"time"

	"involinks-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriodEndBoundIsExclusive(t *testing.T) {
	from, to, err := parsePeriod("2026-01-01", "2026-01-31")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, timeutil.GST), from)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, timeutil.GST), to)

	// Anything dated inside January stays in range, the first moment of
	// February does not. Range queries compare with a strict < on the
	// end bound, so the returned `to` must be rejected by it.
	lastJanuaryInvoice := time.Date(2026, 1, 31, 0, 0, 0, 0, timeutil.GST)
	firstFebruaryInvoice := timeutil.StartOfDay(to)
	assert.True(t, lastJanuaryInvoice.Before(to))
	assert.False(t, firstFebruaryInvoice.Before(to))
}

func TestParsePeriodDefaultsToCurrentMonth(t *testing.T) {
	from, to, err := parsePeriod("", "")
	require.NoError(t, err)

	now := timeutil.Now()
	assert.Equal(t, timeutil.StartOfMonth(now), from)
	assert.Equal(t, timeutil.StartOfMonth(now).AddDate(0, 1, 0), to)
}

func TestParsePeriodRejectsBadInput(t *testing.T) {
	_, _, err := parsePeriod("31-01-2026", "")
	assert.ErrorContains(t, err, "invalid from date")

	_, _, err = parsePeriod("", "2026/01/31")
	assert.ErrorContains(t, err, "invalid to date")

	_, _, err = parsePeriod("2026-02-01", "2026-01-01")
	assert.ErrorContains(t, err, "empty period")
}
