package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDayUTC_UsesBusinessTimezone(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	// 01:30 UTC on the 10th is still the 9th in São Paulo (UTC-3).
	ts := time.Date(2024, 7, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 7, 9, 3, 0, 0, 0, time.UTC), StartOfDayUTC(ts))
	assert.Equal(t, "2024-07-09", FormatDate(ts))
}

func TestParseDate(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	got, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	start, err := ParseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", FormatDate(AddMonths(start, 1)))
	assert.Equal(t, "2025-01-10", FormatDate(AddMonths(start, 12)))
	assert.Equal(t, "2024-01-13", FormatDate(AddDays(start, 3)))
}

func TestInit_InvalidTimezone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus_Mons"))
}
