package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "9 AM"},
		{"12:00", "12 PM"},
		{"14:00", "2 PM"},
		{"14:30", "2:30 PM"},
		{"00:00", "12 AM"},
		{"00:15", "12:15 AM"},
		{"23:45", "11:45 PM"},
		{"10:00:00", "10 AM"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimeForDisplay(tc.in), "input %s", tc.in)
	}
}

func TestFormatTimeForDisplayInvalid(t *testing.T) {
	// Unparseable values pass through untouched.
	assert.Equal(t, "not-a-time", FormatTimeForDisplay("not-a-time"))
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, "morning", TimeOfDay(6))
	assert.Equal(t, "morning", TimeOfDay(11))
	assert.Equal(t, "afternoon", TimeOfDay(12))
	assert.Equal(t, "afternoon", TimeOfDay(16))
	assert.Equal(t, "evening", TimeOfDay(17))
	assert.Equal(t, "evening", TimeOfDay(23))
	assert.Equal(t, "evening", TimeOfDay(0))
	assert.Equal(t, "evening", TimeOfDay(5))
}

func TestDateLabel(t *testing.T) {
	today := time.Date(2026, 1, 27, 10, 0, 0, 0, Location())

	assert.Equal(t, "today (Tuesday, January 27)", DateLabel(today, today))
	assert.Equal(t, "tomorrow (Wednesday, January 28)", DateLabel(today.AddDate(0, 0, 1), today))
	assert.Equal(t, "Friday, January 30", DateLabel(today.AddDate(0, 0, 3), today))
}

func TestParseTime(t *testing.T) {
	short, err := ParseTime("14:30")
	require.NoError(t, err)
	assert.Equal(t, 14, short.Hour())
	assert.Equal(t, 30, short.Minute())

	long, err := ParseTime("14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14, long.Hour())

	_, err = ParseTime("2 PM")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-27")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 27, d.Day())

	_, err = ParseDate("27/01/2026")
	assert.Error(t, err)
}
