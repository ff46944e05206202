package models

import "time"

// User is a caller identified by their normalized contact number.
// The contact number is the durable key: created on first contact,
// never deleted, only the display name may be attached later.
type User struct {
	ContactNumber string    `bson:"contactNumber" json:"contactNumber"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
