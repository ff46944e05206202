// Package preferences tracks a caller's scheduling habits, learned from
// the appointments they book during calls.
package preferences

import (
	"bookline/models"
	"bookline/utils"
)

const maxPreferredDays = 3

// Fold updates learned preferences with a freshly booked (date, time):
// the time-of-day bucket becomes the preferred time, the weekday joins a
// rolling window of the last 3 distinct weekdays, and the pair is kept
// as the most recent appointment.
func Fold(prefs models.Preferences, date, timeOfDay string) models.Preferences {
	if t, err := utils.ParseTime(timeOfDay); err == nil {
		prefs.PreferredTime = utils.TimeOfDay(t.Hour())
	}

	if d, err := utils.ParseDate(date); err == nil {
		day := d.Format("Monday")
		if !containsDay(prefs.PreferredDays, day) {
			prefs.PreferredDays = append(prefs.PreferredDays, day)
			if len(prefs.PreferredDays) > maxPreferredDays {
				prefs.PreferredDays = prefs.PreferredDays[len(prefs.PreferredDays)-maxPreferredDays:]
			}
		}
	}

	prefs.LastAppointmentDate = date
	prefs.LastAppointmentTime = timeOfDay
	return prefs
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
