package models

// Preferences captures scheduling habits learned from a caller's
// bookings. PreferredDays keeps the last 3 distinct weekdays.
type Preferences struct {
	PreferredTime       string   `bson:"preferredTime,omitempty" json:"preferredTime,omitempty"`
	PreferredDays       []string `bson:"preferredDays,omitempty" json:"preferredDays,omitempty"`
	LastAppointmentDate string   `bson:"lastAppointmentDate,omitempty" json:"lastAppointmentDate,omitempty"`
	LastAppointmentTime string   `bson:"lastAppointmentTime,omitempty" json:"lastAppointmentTime,omitempty"`
}
