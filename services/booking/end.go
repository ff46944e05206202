package booking

import (
	"context"

	"bookline/models"
	"bookline/services/cost"
	"bookline/services/session"
	"bookline/services/summary"
	"bookline/services/transcript"
	"bookline/utils"

	"go.uber.org/zap"
)

const recentAppointmentsLimit = 5

// EndConversation wraps up the call: it assembles the transcript,
// generates the summary, emits the final call_summary event, persists
// the conversation record and schedules the disconnect. Every step is
// best effort; the farewell is returned no matter what failed along
// the way.
func (s *DefaultToolService) EndConversation(ctx context.Context, sess *session.Session) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolEndConversation, models.ToolStatusStarted, nil)

	contactNumber := sess.ContactNumber()

	var appts []models.Appointment
	if contactNumber != "" {
		var err error
		appts, err = s.appointments.GetRecentByContactNumber(ctx, contactNumber, recentAppointmentsLimit)
		if err != nil {
			utils.GetLogger().Error("failed to load recent appointments", zap.Error(err))
			appts = nil
		}
	}

	transcriptText := transcript.Format(sess.ToolCalls())

	summaryText := summary.Fallback(contactNumber)
	if s.summaries != nil {
		if text, err := s.summaries.Generate(ctx, transcriptText, contactNumber, appts); err != nil {
			utils.GetLogger().Error("failed to generate call summary", zap.Error(err))
		} else {
			summaryText = text
		}
	}

	// Only still-scheduled appointments go to the UI.
	recent := make([]models.AppointmentView, 0, len(appts))
	for _, apt := range appts {
		if apt.Status != models.AppointmentScheduled {
			continue
		}
		recent = append(recent, models.AppointmentView{Date: apt.Date, Time: apt.Time, Status: apt.Status})
	}

	durationSeconds := sess.Duration()
	costs := cost.Breakdown(sess.Usage, durationSeconds)

	if contactNumber != "" {
		record := models.ConversationRecord{
			SessionID:       sess.ID,
			ContactNumber:   contactNumber,
			Transcript:      transcriptText,
			Summary:         summaryText,
			ToolCalls:       sess.ToolCalls(),
			DurationSeconds: durationSeconds,
			CostBreakdown:   costs,
			Preferences:     sess.Preferences,
		}
		if _, err := s.conversations.Create(ctx, record); err != nil {
			utils.GetLogger().Error("failed to save conversation record",
				zap.String("sessionId", sess.ID), zap.Error(err))
		}
	}

	s.savePreferences(ctx, sess)

	sess.Emitter.EmitSummary(ctx, summaryText, recent, sess.Preferences, costs, durationSeconds)
	sess.Emitter.EmitToolCall(ctx, ToolEndConversation, models.ToolStatusSuccess,
		map[string]any{"summary": summaryText})

	if s.disconnect != nil {
		s.disconnect(sess)
	}

	return "Thank you for using our appointment booking service. Have a great day!", nil
}
