// Package booking implements the tool operations behind the voice
// assistant: identification, slot discovery, and the appointment
// lifecycle. Every operation takes the call's session, emits started
// and success/error events, and returns a sentence ready for the voice
// pipeline. Failures come back as *ToolError so the dispatcher can
// speak them without parsing text.
package booking

import (
	"context"
	"time"

	"bookline/config"
	appointmentRepo "bookline/database/repository/appointment"
	conversationRepo "bookline/database/repository/conversation"
	slotRepo "bookline/database/repository/slot"
	userRepo "bookline/database/repository/user"
	"bookline/models"
	"bookline/services/preferences"
	"bookline/services/session"
	"bookline/services/summary"
	"bookline/utils"
)

// Tool names as exposed to the language model.
const (
	ToolIdentifyUser         = "identify_user"
	ToolFetchSlots           = "fetch_slots"
	ToolBookAppointment      = "book_appointment"
	ToolRetrieveAppointments = "retrieve_appointments"
	ToolModifyAppointment    = "modify_appointment"
	ToolCancelAppointment    = "cancel_appointment"
	ToolEndConversation      = "end_conversation"
)

// ReminderScheduler enqueues an appointment reminder. Implementations
// decide the fire time from the appointment's date and time.
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt models.Appointment) error
}

// ToolService is the set of operations the language model can invoke
// during a call.
type ToolService interface {
	IdentifyUser(ctx context.Context, sess *session.Session, contactNumber, name string) (string, error)
	FetchSlots(ctx context.Context, sess *session.Session, specificDate string) (string, error)
	BookAppointment(ctx context.Context, sess *session.Session, date, timeOfDay, notes string) (string, error)
	RetrieveAppointments(ctx context.Context, sess *session.Session) (string, error)
	ModifyAppointment(ctx context.Context, sess *session.Session, appointmentID, newDate, newTime string) (string, error)
	CancelAppointment(ctx context.Context, sess *session.Session, appointmentID string) (string, error)
	EndConversation(ctx context.Context, sess *session.Session) (string, error)
}

// DefaultToolService implements ToolService over the Mongo repositories.
// prefs, summaries and reminders may be nil; the related steps are then
// skipped. All three are best effort and never fail an operation.
type DefaultToolService struct {
	users         userRepo.UserRepository
	slots         slotRepo.SlotRepository
	appointments  appointmentRepo.AppointmentRepository
	conversations conversationRepo.ConversationRepository

	prefs      preferences.Store
	summaries  summary.Generator
	reminders  ReminderScheduler
	disconnect func(*session.Session)

	now func() time.Time
}

// NewToolService constructs the default tool service.
func NewToolService(
	users userRepo.UserRepository,
	slots slotRepo.SlotRepository,
	appointments appointmentRepo.AppointmentRepository,
	conversations conversationRepo.ConversationRepository,
	prefs preferences.Store,
	summaries summary.Generator,
	reminders ReminderScheduler,
) *DefaultToolService {
	return &DefaultToolService{
		users:         users,
		slots:         slots,
		appointments:  appointments,
		conversations: conversations,
		prefs:         prefs,
		summaries:     summaries,
		reminders:     reminders,
		now:           utils.Now,
	}
}

// SetDisconnectFunc registers the hook EndConversation uses to schedule
// the call teardown. The orchestrator wires this after construction to
// avoid a dependency cycle.
func (s *DefaultToolService) SetDisconnectFunc(fn func(*session.Session)) {
	s.disconnect = fn
}

// gate enforces the identity requirement shared by every operation that
// touches caller data.
func (s *DefaultToolService) gate(ctx context.Context, sess *session.Session, tool string) *ToolError {
	if sess.Identified() {
		return nil
	}
	te := errNotIdentified()
	sess.Emitter.EmitToolCall(ctx, tool, models.ToolStatusError, map[string]any{"error": te.Message})
	return te
}

func (s *DefaultToolService) appointmentDuration() int {
	if d := config.AppConfig.AppointmentDuration; d > 0 {
		return d
	}
	return 30
}

func (s *DefaultToolService) discoveryWindowDays() int {
	if d := config.AppConfig.DiscoveryWindowDays; d > 0 {
		return d
	}
	return 14
}
