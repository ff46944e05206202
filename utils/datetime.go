package utils

import (
	"fmt"
	"time"

	"bookline/config"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var location *time.Location

// Location returns the fixed business timezone. Every "now", "today" and
// "tomorrow" computation uses it regardless of caller location.
func Location() *time.Location {
	if location == nil {
		tz := config.AppConfig.Timezone
		if tz == "" {
			tz = "Asia/Kolkata"
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+30*60)
		}
		location = loc
	}
	return location
}

// Now returns the current time in the business timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// ParseTime parses a stored time-of-day value, accepting both "15:04"
// and "15:04:05".
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t, nil
}

// ParseDate parses a stored "2006-01-02" date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatTimeForDisplay converts a 24-hour time value to its spoken
// 12-hour form: "14:00" becomes "2 PM", "14:30" becomes "2:30 PM".
func FormatTimeForDisplay(value string) string {
	t, err := ParseTime(value)
	if err != nil {
		return value
	}

	hour, minute := t.Hour(), t.Minute()
	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}

	if minute == 0 {
		return fmt.Sprintf("%d %s", display, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// TimeOfDay buckets an hour into morning (06:00-11:59),
// afternoon (12:00-16:59) or evening (everything else).
func TimeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// DateLabel renders a date relative to today: "today (Tuesday, January 27)",
// "tomorrow (...)" or just "Tuesday, January 27".
func DateLabel(date, today time.Time) string {
	spoken := date.Format("Monday, January 2")
	switch date.Format(DateLayout) {
	case today.Format(DateLayout):
		return fmt.Sprintf("today (%s)", spoken)
	case today.AddDate(0, 0, 1).Format(DateLayout):
		return fmt.Sprintf("tomorrow (%s)", spoken)
	default:
		return spoken
	}
}
