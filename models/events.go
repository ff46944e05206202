package models

import "time"

// Tool event statuses.
const (
	ToolStatusStarted = "started"
	ToolStatusSuccess = "success"
	ToolStatusError   = "error"
)

// ToolCallEvent mirrors a tool invocation to the UI channel.
type ToolCallEvent struct {
	Type      string         `json:"type"` // always "tool_call"
	Tool      string         `json:"tool"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// CallSummaryEvent is the final event emitted when a call ends.
type CallSummaryEvent struct {
	Type            string             `json:"type"` // always "call_summary"
	Summary         string             `json:"summary"`
	Appointments    []AppointmentView  `json:"appointments"`
	Preferences     Preferences        `json:"preferences"`
	CostBreakdown   map[string]float64 `json:"costBreakdown,omitempty"`
	DurationSeconds int                `json:"durationSeconds"`
	Timestamp       time.Time          `json:"timestamp"`
}

// ReminderPayload is the asynq task payload for appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	ContactNumber string `json:"contactNumber"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
