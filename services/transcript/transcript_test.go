package transcript

import (
	"strings"
	"testing"
	"time"

	"bookline/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatEmpty(t *testing.T) {
	out := Format(nil)
	assert.True(t, strings.HasPrefix(out, "===== CONVERSATION TRANSCRIPT ====="))
	assert.True(t, strings.HasSuffix(out, "==================================="))
}

func TestFormatOrdersByTimestamp(t *testing.T) {
	base := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)
	calls := []models.ToolCallRecord{
		{Tool: "fetch_slots", Timestamp: base.Add(time.Minute), Result: "3 slots fetched"},
		{Tool: "identify_user", Timestamp: base, Params: map[string]string{"contact_number": "5551234"}, Result: "found"},
	}

	out := Format(calls)
	identifyAt := strings.Index(out, "identify_user")
	fetchAt := strings.Index(out, "fetch_slots")
	assert.Greater(t, identifyAt, -1)
	assert.Greater(t, fetchAt, identifyAt)
	assert.Contains(t, out, "[TOOL CALL] identify_user(contact_number=5551234)")
	assert.Contains(t, out, "[TOOL RESULT] found")
}

func TestFormatParamsSorted(t *testing.T) {
	calls := []models.ToolCallRecord{
		{
			Tool:      "book_appointment",
			Timestamp: time.Now(),
			Params:    map[string]string{"time": "14:00", "date": "2026-01-27"},
			Result:    "success",
		},
	}

	out := Format(calls)
	assert.Contains(t, out, "book_appointment(date=2026-01-27, time=14:00)")
}
