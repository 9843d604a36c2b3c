package fieldval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lancerhq/workspace-service/internal/apperr"
)

func TestParsePercentClamps(t *testing.T) {
	low, err := ParsePercent(-5, "progressPercent", false)
	require.NoError(t, err)
	require.Equal(t, float64(0), *low)

	high, err := ParsePercent(150, "progressPercent", false)
	require.NoError(t, err)
	require.Equal(t, float64(100), *high)

	mid, err := ParsePercent(42, "progressPercent", false)
	require.NoError(t, err)
	require.Equal(t, float64(42), *mid)
}

func TestParsePercentNullContract(t *testing.T) {
	v, err := ParsePercent(nil, "progressPercent", true)
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = ParsePercent(nil, "progressPercent", false)
	require.Error(t, err)
	require.True(t, apperr.IsValidation(err))
}

func TestRequireText(t *testing.T) {
	s, err := RequireText("  hello  ", "title")
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	_, err = RequireText("   ", "title")
	require.Error(t, err)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title", ve.Field)
	require.Equal(t, "title is required.", ve.Message)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-15T10:30:00Z", "startsAt", false)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), *parsed)

	dateOnly, err := ParseDate("2026-03-15", "startsAt", false)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *dateOnly)

	millis, err := ParseDate(float64(1700000000000), "startsAt", false)
	require.NoError(t, err)
	require.Equal(t, time.UnixMilli(1700000000000).UTC(), *millis)

	_, err = ParseDate("not a date", "startsAt", false)
	require.True(t, apperr.IsValidation(err))

	empty, err := ParseDate("", "startsAt", true)
	require.NoError(t, err)
	require.Nil(t, empty)
}

func TestParseIntegerRejectsFractions(t *testing.T) {
	n, err := ParseInteger(float64(1500000), "plannedAmountCents", false)
	require.NoError(t, err)
	require.Equal(t, int64(1500000), *n)

	_, err = ParseInteger(12.5, "plannedAmountCents", false)
	require.True(t, apperr.IsValidation(err))
}

func TestStringList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, StringList([]any{"a", " b ", ""}))
	require.Equal(t, []string{"a", "b", "c"}, StringList("a, b,c"))
	require.Equal(t, []string{"line one", "line two"}, StringList("line one\nline two\n"))
	require.Equal(t, []string{}, StringList(nil))
}

func TestParseBool(t *testing.T) {
	require.True(t, ParseBool(true, false))
	require.True(t, ParseBool("yes", false))
	require.False(t, ParseBool("off", true))
	require.True(t, ParseBool(float64(1), false))
	require.False(t, ParseBool(float64(0), true))
	require.True(t, ParseBool("gibberish", true))
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	minutes := DurationMinutes(&start, &end)
	require.NotNil(t, minutes)
	require.Equal(t, int64(90), *minutes)

	require.Nil(t, DurationMinutes(&start, nil))
	require.Nil(t, DurationMinutes(nil, &end))

	backwards := DurationMinutes(&end, &start)
	require.Equal(t, int64(0), *backwards)
}
