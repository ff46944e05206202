package booking

import (
	"context"
	"fmt"
	"strings"

	"bookline/models"
	"bookline/services/session"
	"bookline/utils"

	"go.uber.org/zap"
)

// RetrieveAppointments lists the caller's appointments, oldest date
// first. The response spells out each appointment's id because the
// language model needs it verbatim for modify and cancel.
func (s *DefaultToolService) RetrieveAppointments(ctx context.Context, sess *session.Session) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolRetrieveAppointments, models.ToolStatusStarted, nil)

	if te := s.gate(ctx, sess, ToolRetrieveAppointments); te != nil {
		return "", te
	}

	appts, err := s.appointments.GetByContactNumber(ctx, sess.ContactNumber())
	if err != nil {
		utils.GetLogger().Error("failed to retrieve appointments", zap.Error(err))
		te := errStorage(err, "I'm sorry, I had trouble retrieving your appointments. Could you try again?")
		sess.Emitter.EmitToolCall(ctx, ToolRetrieveAppointments, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	if len(appts) == 0 {
		sess.Emitter.EmitToolCall(ctx, ToolRetrieveAppointments, models.ToolStatusSuccess,
			map[string]any{"appointments": []models.Appointment{}})
		return "You don't have any appointments scheduled yet. Would you like to book one?", nil
	}

	lines := make([]string, 0, len(appts))
	for _, apt := range appts {
		statusText := ""
		if apt.Status != models.AppointmentScheduled {
			statusText = fmt.Sprintf("(%s)", apt.Status)
		}
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("ID: %s, Date: %s at %s %s",
			apt.ID, apt.Date, utils.FormatTimeForDisplay(apt.Time), statusText)))
	}

	sess.RecordToolCall(ToolRetrieveAppointments, nil, fmt.Sprintf("%d appointments found", len(lines)))
	sess.Emitter.EmitToolCall(ctx, ToolRetrieveAppointments, models.ToolStatusSuccess,
		map[string]any{"appointments": appts})

	if len(lines) == 1 {
		return fmt.Sprintf("You have 1 appointment: %s.", lines[0]), nil
	}
	listed := strings.Join(lines[:len(lines)-1], ", ") + ", and " + lines[len(lines)-1]
	return fmt.Sprintf("You have %d appointments: %s.", len(lines), listed), nil
}
