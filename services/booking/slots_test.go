package booking

import (
	"context"
	"testing"

	"bookline/models"
	"bookline/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The frozen clock is Tuesday 2026-01-27 13:00 IST.

func TestFetchSlotsNearestThree(t *testing.T) {
	env := newTestEnv()
	env.slots.add("s1", "2026-01-27", "10:00", true) // already past
	env.slots.add("s2", "2026-01-27", "14:00", true)
	env.slots.add("s3", "2026-01-27", "15:00", true)
	env.slots.add("s4", "2026-01-28", "09:00", true)
	env.slots.add("s5", "2026-02-02", "09:00", true)
	sess := session.New("call-1")

	response, err := env.svc.FetchSlots(context.Background(), sess, "")
	require.NoError(t, err)
	assert.Equal(t,
		"I have 3 nearest slots available at: today (Tuesday, January 27) at 2 PM, today (Tuesday, January 27) at 3 PM, tomorrow (Wednesday, January 28) at 9 AM.",
		response)
	assert.Equal(t, "3 slots fetched", sess.ToolCalls()[0].Result)
}

func TestFetchSlotsSkipsBookedRows(t *testing.T) {
	env := newTestEnv()
	env.slots.add("s2", "2026-01-27", "14:00", true)
	env.slots.add("s3", "2026-01-27", "15:00", true)
	// The flag says available but an appointment row exists; the row wins.
	require.NoError(t, env.appts.Create(context.Background(), &models.Appointment{
		ID: "a1", ContactNumber: "5550000", SlotID: "s2",
		Date: "2026-01-27", Time: "14:00", Status: models.AppointmentScheduled,
	}))
	sess := session.New("call-1")

	response, err := env.svc.FetchSlots(context.Background(), sess, "")
	require.NoError(t, err)
	assert.NotContains(t, response, "2 PM")
	assert.Contains(t, response, "3 PM")
}

func TestFetchSlotsSpecificDateGroupsBuckets(t *testing.T) {
	env := newTestEnv()
	env.slots.add("s1", "2026-01-30", "09:00", true)
	env.slots.add("s2", "2026-01-30", "10:30", true)
	env.slots.add("s3", "2026-01-30", "14:00", true)
	env.slots.add("s4", "2026-01-30", "18:00", true)
	sess := session.New("call-1")

	response, err := env.svc.FetchSlots(context.Background(), sess, "2026-01-30")
	require.NoError(t, err)
	assert.Equal(t,
		"FRIDAY, JANUARY 30 SLOTS: | Morning: 9 AM, 10:30 AM | Afternoon: 2 PM | Evening: 6 PM.",
		response)
}

func TestFetchSlotsSpecificDateKeepsPastTimes(t *testing.T) {
	// Explicit-date queries list the whole day, even times already gone.
	env := newTestEnv()
	env.slots.add("s1", "2026-01-27", "09:00", true)
	sess := session.New("call-1")

	response, err := env.svc.FetchSlots(context.Background(), sess, "2026-01-27")
	require.NoError(t, err)
	assert.Contains(t, response, "9 AM")
}

func TestFetchSlotsNoSlotsAtAll(t *testing.T) {
	env := newTestEnv()
	sess := session.New("call-1")

	_, err := env.svc.FetchSlots(context.Background(), sess, "")
	te := AsToolError(err)
	require.NotNil(t, te)
	assert.Equal(t, CodeNoSlotsOnDate, te.Code)
	assert.Equal(t, "I'm sorry, there are no available slots at the moment. Please try again later.", te.Spoken)
}

func TestFetchSlotsNoSlotsOnDate(t *testing.T) {
	env := newTestEnv()
	sess := session.New("call-1")

	_, err := env.svc.FetchSlots(context.Background(), sess, "2026-01-30")
	te := AsToolError(err)
	require.NotNil(t, te)
	assert.Equal(t, CodeNoSlotsOnDate, te.Code)
	assert.Equal(t, "I'm sorry, there are no available slots on Friday, January 30. Please try a different date.", te.Spoken)
}

func TestFetchSlotsAllBooked(t *testing.T) {
	env := newTestEnv()
	env.slots.add("s1", "2026-01-28", "09:00", true)
	require.NoError(t, env.appts.Create(context.Background(), &models.Appointment{
		ID: "a1", ContactNumber: "5550000", SlotID: "s1",
		Date: "2026-01-28", Time: "09:00", Status: models.AppointmentScheduled,
	}))
	sess := session.New("call-1")

	_, err := env.svc.FetchSlots(context.Background(), sess, "")
	te := AsToolError(err)
	require.NotNil(t, te)
	assert.Equal(t, "I'm sorry, all available slots are currently booked. Please check back later for new availability.", te.Spoken)
}

func TestFetchSlotsNeedsNoIdentity(t *testing.T) {
	// Discovery is allowed before identification.
	env := newTestEnv()
	env.slots.add("s1", "2026-01-28", "09:00", true)
	sess := session.New("call-1")

	response, err := env.svc.FetchSlots(context.Background(), sess, "")
	require.NoError(t, err)
	assert.Contains(t, response, "9 AM")
}
