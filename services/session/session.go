// Package session holds the per-call mutable context shared by every
// tool operation of one phone call. A Session is created when the call
// starts, passed explicitly into each operation and discarded at call
// end. It is not safe for concurrent use: one call processes one tool
// at a time, and concurrent calls each get their own Session.
package session

import (
	"fmt"
	"time"

	"bookline/models"
	"bookline/services/events"
)

// Usage accumulates speech-pipeline metrics reported during the call,
// consumed by the cost estimate at termination.
type Usage struct {
	STTSeconds       float64
	PromptTokens     int
	CompletionTokens int
	TTSCharacters    int
}

// Session is the call-scoped shared state.
type Session struct {
	ID            string
	contactNumber string
	Participant   string
	StartedAt     time.Time

	Emitter     *events.Emitter
	toolCalls   []models.ToolCallRecord
	Preferences models.Preferences
	Usage       *Usage
}

// New constructs a fresh context for a call. All identity fields start
// unset; tools must reject until identification runs. The emitter has
// no transport until the UI channel connects, so early emits are
// dropped silently.
func New(id string) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		Emitter:   events.NewEmitter(),
		Usage:     &Usage{},
	}
}

// SetContactNumber records the caller's identity. Identity is set exactly
// once per call; a second identification with a different number is an
// error rather than a silent overwrite.
func (s *Session) SetContactNumber(number string) error {
	if s.contactNumber != "" && s.contactNumber != number {
		return fmt.Errorf("session already identified as %s", s.contactNumber)
	}
	s.contactNumber = number
	return nil
}

// ContactNumber returns the identified caller's number, or "" when the
// identification step has not run.
func (s *Session) ContactNumber() string {
	return s.contactNumber
}

// Identified reports whether the identification step has run.
func (s *Session) Identified() bool {
	return s.contactNumber != ""
}

// RecordToolCall appends to the call's tool log. Entries are kept in
// invocation order and read back in that order for the transcript.
func (s *Session) RecordToolCall(tool string, params map[string]string, result string) {
	s.toolCalls = append(s.toolCalls, models.ToolCallRecord{
		Tool:      tool,
		Timestamp: time.Now(),
		Params:    params,
		Result:    result,
	})
}

// ToolCalls returns the tool log in invocation order.
func (s *Session) ToolCalls() []models.ToolCallRecord {
	return s.toolCalls
}

// Duration returns elapsed call time in whole seconds.
func (s *Session) Duration() int {
	return int(time.Since(s.StartedAt).Seconds())
}
