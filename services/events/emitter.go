// Package events mirrors tool activity to the UI over the call's
// out-of-band data channel. Delivery is best effort: a failed emit is
// logged and swallowed, never surfaced to the caller.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bookline/models"
	"bookline/utils"

	"go.uber.org/zap"
)

// Transport carries serialized events to the UI for one call.
type Transport interface {
	Publish(ctx context.Context, payload []byte) error
	Close() error
}

// Emitter publishes structured events for a single call. A nil Emitter
// or an Emitter without a transport drops events silently, so tools can
// emit unconditionally.
type Emitter struct {
	mu        sync.Mutex
	transport Transport
}

// NewEmitter returns an Emitter with no transport attached.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Attach binds the transport once the UI channel connects.
func (e *Emitter) Attach(t Transport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport = t
}

// EmitToolCall sends a tool execution event (started/success/error).
func (e *Emitter) EmitToolCall(ctx context.Context, tool, status string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	e.publish(ctx, models.ToolCallEvent{
		Type:      "tool_call",
		Tool:      tool,
		Status:    status,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// EmitSummary sends the final call summary event.
func (e *Emitter) EmitSummary(ctx context.Context, summary string, appointments []models.AppointmentView, prefs models.Preferences, costs map[string]float64, durationSeconds int) {
	if appointments == nil {
		appointments = []models.AppointmentView{}
	}
	e.publish(ctx, models.CallSummaryEvent{
		Type:            "call_summary",
		Summary:         summary,
		Appointments:    appointments,
		Preferences:     prefs,
		CostBreakdown:   costs,
		DurationSeconds: durationSeconds,
		Timestamp:       time.Now().UTC(),
	})
}

func (e *Emitter) publish(ctx context.Context, event any) {
	if e == nil {
		return
	}
	e.mu.Lock()
	t := e.transport
	e.mu.Unlock()
	if t == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		utils.GetLogger().Error("failed to encode event", zap.Error(err))
		return
	}
	if err := t.Publish(ctx, payload); err != nil {
		utils.GetLogger().Warn("failed to deliver event", zap.Error(err))
	}
}

// Close releases the attached transport, if any.
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.transport == nil {
		return nil
	}
	err := e.transport.Close()
	e.transport = nil
	return err
}
