package booking

import (
	"context"
	"fmt"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/models"
	"bookline/services/preferences"
	"bookline/services/session"
	"bookline/utils"

	"go.uber.org/zap"
)

// ModifyAppointment moves a caller's appointment to a new slot. The
// write itself follows the same discipline as booking: attempt the
// update and let the unique indexes reject it if the target slot was
// claimed between the pre-check and the write.
func (s *DefaultToolService) ModifyAppointment(ctx context.Context, sess *session.Session, appointmentID, newDate, newTime string) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusStarted,
		map[string]any{"appointment_id": appointmentID, "new_date": newDate, "new_time": newTime})

	if te := s.gate(ctx, sess, ToolModifyAppointment); te != nil {
		return "", te
	}

	apt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return "", s.modifyFailed(ctx, sess, err)
	}
	if apt == nil {
		te := errAppointmentNotFound("I couldn't find that appointment. Could you tell me which appointment you'd like to modify?")
		sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}
	if apt.ContactNumber != sess.ContactNumber() {
		te := errForbidden()
		sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	newSlot, err := s.slots.GetByDateTime(ctx, newDate, newTime)
	if err != nil {
		return "", s.modifyFailed(ctx, sess, err)
	}
	if newSlot == nil {
		te := errSlotNotFound()
		sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	// Courtesy pre-check so the common case answers without burning a
	// failed write. Excludes this appointment: moving onto your own
	// current slot is a no-op, not a conflict.
	other, err := s.appointments.OtherAppointmentOnSlot(ctx, newSlot.ID, appointmentID)
	if err != nil {
		return "", s.modifyFailed(ctx, sess, err)
	}
	if other != nil {
		te := errModifyTargetBooked(newDate, newTime)
		sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	oldDate, oldTime, oldSlotID := apt.Date, apt.Time, apt.SlotID

	if err := s.appointments.UpdateSlot(ctx, appointmentID, newSlot.ID, newDate, newTime); err != nil {
		if appointmentRepo.IsDuplicate(err) {
			// The target slot was claimed after the pre-check. This
			// appointment keeps its original slot.
			te := errModifyTargetBooked(newDate, newTime)
			sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
			return "", te
		}
		return "", s.modifyFailed(ctx, sess, err)
	}

	// Flag maintenance is best effort either way.
	if oldSlotID != "" {
		if ferr := s.slots.SetAvailability(ctx, oldSlotID, true); ferr != nil {
			utils.GetLogger().Warn("failed to release old slot",
				zap.String("slotId", oldSlotID), zap.Error(ferr))
		}
	}
	if ferr := s.slots.SetAvailability(ctx, newSlot.ID, false); ferr != nil {
		utils.GetLogger().Warn("failed to update slot availability",
			zap.String("slotId", newSlot.ID), zap.Error(ferr))
	}

	sess.RecordToolCall(ToolModifyAppointment,
		map[string]string{"appointment_id": appointmentID, "new_date": newDate, "new_time": newTime}, "success")
	sess.Preferences = preferences.Fold(sess.Preferences, newDate, newTime)
	s.savePreferences(ctx, sess)

	apt.SlotID, apt.Date, apt.Time = newSlot.ID, newDate, newTime
	sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusSuccess,
		map[string]any{"appointment": apt})

	return fmt.Sprintf("Perfect! I've moved your appointment from %s at %s to %s at %s.",
		oldDate, utils.FormatTimeForDisplay(oldTime), newDate, utils.FormatTimeForDisplay(newTime)), nil
}

func (s *DefaultToolService) modifyFailed(ctx context.Context, sess *session.Session, err error) *ToolError {
	utils.GetLogger().Error("failed to modify appointment", zap.Error(err))
	te := errStorage(err, "I'm sorry, I had trouble modifying the appointment. Could you try again?")
	sess.Emitter.EmitToolCall(ctx, ToolModifyAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
	return te
}
