package models

import "time"

// Slot is a bookable calendar cell. Available is a derived cache only;
// the appointments collection is authoritative and is re-checked before
// every booking decision.
type Slot struct {
	ID              string    `bson:"id" json:"id"`
	Date            string    `bson:"date" json:"date"` // "2006-01-02"
	Time            string    `bson:"time" json:"time"` // "15:04", 24-hour
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Available       bool      `bson:"available" json:"available"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotView is the slot shape emitted to the UI from slot discovery.
type SlotView struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	TimeDisplay string `json:"timeDisplay"`
	DateLabel   string `json:"dateLabel"`
	TimeOfDay   string `json:"timeOfDay,omitempty"`
}
