package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"bookline/models"
	"bookline/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndConversationPersistsRecord(t *testing.T) {
	env := newTestEnv()
	seedAppointment(t, env, "a1", "5551234", "s1", "2026-01-30", "14:00")
	sess := identifiedSession("5551234")
	sess.RecordToolCall(ToolBookAppointment, map[string]string{"date": "2026-01-30", "time": "14:00"}, "success")
	sess.Usage.STTSeconds = 30
	transport := &recordingTransport{}
	sess.Emitter.Attach(transport)

	var disconnected *session.Session
	env.svc.SetDisconnectFunc(func(s *session.Session) { disconnected = s })

	response, err := env.svc.EndConversation(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Thank you for using our appointment booking service. Have a great day!", response)
	assert.Same(t, sess, disconnected)

	require.Len(t, env.convs.records, 1)
	record := env.convs.records[0]
	assert.Equal(t, sess.ID, record.SessionID)
	assert.Equal(t, "5551234", record.ContactNumber)
	assert.Equal(t, "Caller booked an appointment.", record.Summary)
	assert.Contains(t, record.Transcript, "book_appointment")
	assert.NotEmpty(t, record.CostBreakdown)
	require.Len(t, record.ToolCalls, 1)

	// Events: started, call_summary, success.
	require.Len(t, transport.published, 3)
	var summaryEvent models.CallSummaryEvent
	require.NoError(t, json.Unmarshal(transport.published[1], &summaryEvent))
	assert.Equal(t, "call_summary", summaryEvent.Type)
	assert.Equal(t, "Caller booked an appointment.", summaryEvent.Summary)
	require.Len(t, summaryEvent.Appointments, 1)
	assert.Equal(t, "2026-01-30", summaryEvent.Appointments[0].Date)
}

func TestEndConversationSummaryFallback(t *testing.T) {
	env := newTestEnv()
	env.summaries.err = fmt.Errorf("model unavailable")
	sess := identifiedSession("5551234")

	response, err := env.svc.EndConversation(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Thank you for using our appointment booking service. Have a great day!", response)

	require.Len(t, env.convs.records, 1)
	assert.Equal(t, "Call with user 5551234. Conversation completed successfully.", env.convs.records[0].Summary)
}

func TestEndConversationUnidentified(t *testing.T) {
	env := newTestEnv()
	sess := session.New("call-1")
	transport := &recordingTransport{}
	sess.Emitter.Attach(transport)

	response, err := env.svc.EndConversation(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "Thank you for using our appointment booking service. Have a great day!", response)

	// Nothing to attribute the record to, so none is written, but the
	// summary event still reaches the UI.
	assert.Empty(t, env.convs.records)
	assert.Len(t, transport.published, 3)
}

func TestEndConversationExcludesNonScheduled(t *testing.T) {
	env := newTestEnv()
	seedAppointment(t, env, "a1", "5551234", "s1", "2026-01-20", "10:00")
	seedAppointment(t, env, "a2", "5551234", "s2", "2026-01-30", "14:00")
	_, err := env.appts.MarkCompletedBefore(context.Background(), "2026-01-27", "00:00")
	require.NoError(t, err)
	sess := identifiedSession("5551234")
	transport := &recordingTransport{}
	sess.Emitter.Attach(transport)

	_, err = env.svc.EndConversation(context.Background(), sess)
	require.NoError(t, err)

	var summaryEvent models.CallSummaryEvent
	require.NoError(t, json.Unmarshal(transport.published[1], &summaryEvent))
	require.Len(t, summaryEvent.Appointments, 1)
	assert.Equal(t, "2026-01-30", summaryEvent.Appointments[0].Date)
}
