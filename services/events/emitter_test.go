package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureTransport struct {
	published [][]byte
	failWith  error
	closed    bool
}

func (t *captureTransport) Publish(_ context.Context, payload []byte) error {
	if t.failWith != nil {
		return t.failWith
	}
	t.published = append(t.published, payload)
	return nil
}

func (t *captureTransport) Close() error {
	t.closed = true
	return nil
}

func TestEmitWithoutTransportIsSilent(t *testing.T) {
	e := NewEmitter()
	// Must not panic or block.
	e.EmitToolCall(context.Background(), "fetch_slots", models.ToolStatusStarted, nil)
	e.EmitSummary(context.Background(), "summary", nil, models.Preferences{}, nil, 10)
}

func TestEmitToolCall(t *testing.T) {
	e := NewEmitter()
	capture := &captureTransport{}
	e.Attach(capture)

	e.EmitToolCall(context.Background(), "book_appointment", models.ToolStatusSuccess,
		map[string]any{"date": "2026-01-27"})

	require.Len(t, capture.published, 1)
	var event models.ToolCallEvent
	require.NoError(t, json.Unmarshal(capture.published[0], &event))
	assert.Equal(t, "tool_call", event.Type)
	assert.Equal(t, "book_appointment", event.Tool)
	assert.Equal(t, models.ToolStatusSuccess, event.Status)
	assert.Equal(t, "2026-01-27", event.Data["date"])
	assert.False(t, event.Timestamp.IsZero())
}

func TestEmitSummaryDefaults(t *testing.T) {
	e := NewEmitter()
	capture := &captureTransport{}
	e.Attach(capture)

	e.EmitSummary(context.Background(), "all done", nil, models.Preferences{PreferredTime: "morning"},
		map[string]float64{"total": 0.12}, 42)

	require.Len(t, capture.published, 1)
	var event models.CallSummaryEvent
	require.NoError(t, json.Unmarshal(capture.published[0], &event))
	assert.Equal(t, "call_summary", event.Type)
	assert.Equal(t, "all done", event.Summary)
	assert.NotNil(t, event.Appointments)
	assert.Empty(t, event.Appointments)
	assert.Equal(t, 42, event.DurationSeconds)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	e := NewEmitter()
	e.Attach(&captureTransport{failWith: fmt.Errorf("connection reset")})

	// Delivery failure must never propagate to the tool path.
	e.EmitToolCall(context.Background(), "fetch_slots", models.ToolStatusStarted, nil)
}

func TestClose(t *testing.T) {
	e := NewEmitter()
	capture := &captureTransport{}
	e.Attach(capture)

	require.NoError(t, e.Close())
	assert.True(t, capture.closed)

	// Emits after close are dropped.
	e.EmitToolCall(context.Background(), "fetch_slots", models.ToolStatusStarted, nil)
	assert.Empty(t, capture.published)

	// Closing twice is fine.
	require.NoError(t, e.Close())
}
