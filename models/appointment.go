package models

import "time"

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Appointment is a caller's claim on a slot. At most one scheduled
// appointment may reference a given slot id; the unique indexes on the
// appointments collection enforce this atomically.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	ContactNumber   string    `bson:"contactNumber" json:"contactNumber"`
	SlotID          string    `bson:"slotId" json:"slotId"`
	Date            string    `bson:"date" json:"date"` // "2006-01-02"
	Time            string    `bson:"time" json:"time"` // "15:04", 24-hour
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Status          string    `bson:"status" json:"status"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentView is the trimmed appointment shape sent in the final
// call summary event.
type AppointmentView struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}
