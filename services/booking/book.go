package booking

import (
	"context"
	"fmt"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/models"
	"bookline/services/preferences"
	"bookline/services/session"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookAppointment claims a slot for the identified caller. There is no
// pre-insert "is it taken" check against other callers: the write goes
// straight to the appointments collection and its unique indexes decide
// the winner. A rejected insert is then disambiguated by re-querying,
// since by that point the collection holds the authoritative answer.
func (s *DefaultToolService) BookAppointment(ctx context.Context, sess *session.Session, date, timeOfDay, notes string) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusStarted,
		map[string]any{"date": date, "time": timeOfDay})

	if te := s.gate(ctx, sess, ToolBookAppointment); te != nil {
		return "", te
	}
	contactNumber := sess.ContactNumber()

	slot, err := s.slots.GetByDateTime(ctx, date, timeOfDay)
	if err != nil {
		return "", s.bookFailed(ctx, sess, err)
	}
	if slot == nil {
		te := errSlotNotFound()
		sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	// Same-caller check before anything else. It cannot race with other
	// callers, it turns a repeated tool call into a conversational
	// answer, and it has to precede the availability fast path: the
	// caller's own booking is what flipped the flag.
	existing, err := s.appointments.GetBySlotAndContact(ctx, slot.ID, contactNumber)
	if err != nil {
		return "", s.bookFailed(ctx, sess, err)
	}
	if existing != nil {
		sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError,
			map[string]any{"error": "User already has this appointment"})
		return fmt.Sprintf("You already have an appointment booked for %s on %s. Would you like to modify or cancel it instead?",
			utils.FormatTimeForDisplay(timeOfDay), date), nil
	}

	// Fast path on the cached flag. Stale values are fine: a false
	// negative just reports unavailable, a false positive is caught by
	// the insert below.
	if !slot.Available {
		te := errSlotUnavailable(date, timeOfDay)
		sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	appt := models.Appointment{
		ID:              uuid.New().String(),
		ContactNumber:   contactNumber,
		SlotID:          slot.ID,
		Date:            date,
		Time:            timeOfDay,
		DurationMinutes: s.appointmentDuration(),
		Status:          models.AppointmentScheduled,
		Notes:           notes,
	}

	if err := s.appointments.Create(ctx, &appt); err != nil {
		if appointmentRepo.IsDuplicate(err) {
			return s.disambiguateDuplicate(ctx, sess, slot.ID, date, timeOfDay)
		}
		return "", s.bookFailed(ctx, sess, err)
	}

	// The insert is the commit. Everything below is best effort and
	// never unwinds a confirmed booking.
	if ferr := s.slots.SetAvailability(ctx, slot.ID, false); ferr != nil {
		utils.GetLogger().Warn("failed to update slot availability",
			zap.String("slotId", slot.ID), zap.Error(ferr))
	}

	sess.RecordToolCall(ToolBookAppointment, map[string]string{"date": date, "time": timeOfDay}, "success")
	sess.Preferences = preferences.Fold(sess.Preferences, date, timeOfDay)
	s.savePreferences(ctx, sess)
	s.scheduleReminder(ctx, appt)

	sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusSuccess,
		map[string]any{"appointment": appt})

	return fmt.Sprintf("Perfect! I've booked your appointment for %s at %s. The appointment will last %d minutes. See you then!",
		date, utils.FormatTimeForDisplay(timeOfDay), appt.DurationMinutes), nil
}

// disambiguateDuplicate classifies a rejected insert by re-querying the
// collection: the caller's own earlier booking, a taken (date, time)
// pair, or a lost race on the slot itself.
func (s *DefaultToolService) disambiguateDuplicate(ctx context.Context, sess *session.Session, slotID, date, timeOfDay string) (string, error) {
	contactNumber := sess.ContactNumber()

	own, err := s.appointments.GetBySlotAndContact(ctx, slotID, contactNumber)
	if err != nil {
		return "", s.bookFailed(ctx, sess, err)
	}
	if own != nil {
		// Repeated tool call from the language model. The earlier
		// booking stands; confirm it instead of failing.
		sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError,
			map[string]any{"error": "User already has this appointment"})
		return fmt.Sprintf("You already have an appointment booked for %s at %s. Is there anything else I can help you with?",
			date, utils.FormatTimeForDisplay(timeOfDay)), nil
	}

	taken, err := s.appointments.GetByDateTime(ctx, date, timeOfDay)
	if err != nil {
		return "", s.bookFailed(ctx, sess, err)
	}
	if taken != nil {
		te := errSlotAlreadyBooked(date, timeOfDay)
		sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	utils.GetLogger().Warn("slot lost to concurrent booking",
		zap.String("slotId", slotID), zap.String("contactNumber", contactNumber))
	te := errRaceLost(date, timeOfDay)
	sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
	return "", te
}

func (s *DefaultToolService) bookFailed(ctx context.Context, sess *session.Session, err error) *ToolError {
	utils.GetLogger().Error("failed to book appointment", zap.Error(err))
	te := errStorage(err, "I'm sorry, I had trouble booking the appointment. Could you try again?")
	sess.Emitter.EmitToolCall(ctx, ToolBookAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
	return te
}

// savePreferences pushes the session's learned preferences to the
// cross-call store. Failures are logged and ignored.
func (s *DefaultToolService) savePreferences(ctx context.Context, sess *session.Session) {
	if s.prefs == nil || !sess.Identified() {
		return
	}
	if err := s.prefs.Set(ctx, sess.ContactNumber(), sess.Preferences); err != nil {
		utils.GetLogger().Warn("failed to persist caller preferences", zap.Error(err))
	}
}

// scheduleReminder enqueues the appointment reminder. Failures are
// logged and ignored; the booking already stands.
func (s *DefaultToolService) scheduleReminder(ctx context.Context, appt models.Appointment) {
	if s.reminders == nil {
		return
	}
	if err := s.reminders.Schedule(ctx, appt); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}
