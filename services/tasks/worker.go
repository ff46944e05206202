package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/models"
	"bookline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker consumes reminder tasks from the queue.
type ReminderWorker struct {
	server       *asynq.Server
	appointments appointmentRepo.AppointmentRepository
}

// NewReminderWorker builds the queue worker.
func NewReminderWorker(appointments appointmentRepo.AppointmentRepository) *ReminderWorker {
	server := asynq.NewServer(RedisOpt(), asynq.Config{
		Concurrency: 5,
	})
	return &ReminderWorker{server: server, appointments: appointments}
}

// Run blocks processing reminder tasks until Shutdown is called.
func (w *ReminderWorker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendReminder, w.handleSendReminder)
	return w.server.Run(mux)
}

// Shutdown stops the worker gracefully.
func (w *ReminderWorker) Shutdown() {
	w.server.Shutdown()
}

// handleSendReminder fires when a scheduled reminder comes due. The
// appointment is re-checked first: cancellations between enqueue and
// fire silently drop the reminder.
func (w *ReminderWorker) handleSendReminder(ctx context.Context, t *asynq.Task) error {
	var payload models.ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid reminder payload: %w", err)
	}

	apt, err := w.appointments.GetByID(ctx, payload.AppointmentID)
	if err != nil {
		return err
	}
	if apt == nil || apt.Status != models.AppointmentScheduled {
		utils.GetLogger().Info("skipping reminder for missing or inactive appointment",
			zap.String("appointmentId", payload.AppointmentID))
		return nil
	}

	// Delivery channel (SMS, push) is provisioned per deployment; the
	// reminder is logged either way for the call audit trail.
	utils.GetLogger().Info("appointment reminder due",
		zap.String("appointmentId", apt.ID),
		zap.String("contactNumber", apt.ContactNumber),
		zap.String("date", apt.Date),
		zap.String("time", apt.Time))
	return nil
}
