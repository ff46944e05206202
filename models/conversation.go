package models

import "time"

// ToolCallRecord is one entry of a call's append-only tool log.
type ToolCallRecord struct {
	Tool      string            `bson:"tool" json:"tool"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
	Params    map[string]string `bson:"params,omitempty" json:"params,omitempty"`
	Result    string            `bson:"result" json:"result"`
}

// ConversationRecord is the write-once record of a completed call.
type ConversationRecord struct {
	ID              string             `bson:"id" json:"id"`
	SessionID       string             `bson:"sessionId" json:"sessionId"`
	ContactNumber   string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	Transcript      string             `bson:"transcript" json:"transcript"`
	Summary         string             `bson:"summary,omitempty" json:"summary,omitempty"`
	ToolCalls       []ToolCallRecord   `bson:"toolCalls,omitempty" json:"toolCalls,omitempty"`
	DurationSeconds int                `bson:"durationSeconds" json:"durationSeconds"`
	CostBreakdown   map[string]float64 `bson:"costBreakdown,omitempty" json:"costBreakdown,omitempty"`
	Preferences     Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
