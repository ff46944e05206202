package booking

import (
	"context"
	"fmt"

	"bookline/models"
	"bookline/services/session"
	"bookline/utils"

	"go.uber.org/zap"
)

// CancelAppointment removes a caller's appointment. Cancellation is a
// row deletion, which is what frees the slot's unique indexes for the
// next booking; the availability flag flip afterwards is only a cache
// refresh.
func (s *DefaultToolService) CancelAppointment(ctx context.Context, sess *session.Session, appointmentID string) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolCancelAppointment, models.ToolStatusStarted,
		map[string]any{"appointment_id": appointmentID})

	if te := s.gate(ctx, sess, ToolCancelAppointment); te != nil {
		return "", te
	}

	apt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return "", s.cancelFailed(ctx, sess, err)
	}
	if apt == nil {
		// Covers the double-cancel too: the second call lands here.
		te := errAppointmentNotFound("I couldn't find that appointment. Could you tell me the date and time of the appointment you'd like to cancel?")
		sess.Emitter.EmitToolCall(ctx, ToolCancelAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}
	if apt.ContactNumber != sess.ContactNumber() {
		te := errForbidden()
		sess.Emitter.EmitToolCall(ctx, ToolCancelAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	if err := s.appointments.Delete(ctx, appointmentID); err != nil {
		return "", s.cancelFailed(ctx, sess, err)
	}

	if apt.SlotID != "" {
		if ferr := s.slots.SetAvailability(ctx, apt.SlotID, true); ferr != nil {
			utils.GetLogger().Warn("failed to release slot",
				zap.String("slotId", apt.SlotID), zap.Error(ferr))
		}
	}

	sess.RecordToolCall(ToolCancelAppointment, map[string]string{"appointment_id": appointmentID}, "success")
	sess.Emitter.EmitToolCall(ctx, ToolCancelAppointment, models.ToolStatusSuccess,
		map[string]any{"appointment_id": appointmentID, "date": apt.Date, "time": apt.Time})

	return fmt.Sprintf("Your appointment for %s at %s has been cancelled. Is there anything else I can help you with?",
		apt.Date, utils.FormatTimeForDisplay(apt.Time)), nil
}

func (s *DefaultToolService) cancelFailed(ctx context.Context, sess *session.Session, err error) *ToolError {
	utils.GetLogger().Error("failed to cancel appointment", zap.Error(err))
	te := errStorage(err, "I'm sorry, I had trouble cancelling the appointment. Could you try again?")
	sess.Emitter.EmitToolCall(ctx, ToolCancelAppointment, models.ToolStatusError, map[string]any{"error": te.Message})
	return te
}
