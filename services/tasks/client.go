// Package tasks holds the asynq task definitions and the reminder
// queue client and worker.
package tasks

import (
	"context"
	"fmt"
	"time"

	"bookline/config"
	"bookline/models"
	"bookline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Client enqueues appointment reminders, firing a configurable lead
// time before the appointment starts.
type Client struct {
	inner *asynq.Client
	lead  time.Duration
}

// NewClient builds the reminder queue client from app configuration.
func NewClient() *Client {
	return &Client{
		inner: asynq.NewClient(RedisOpt()),
		lead:  time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

// RedisOpt returns the asynq Redis connection options from app
// configuration.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// Schedule enqueues a reminder for the given appointment. Appointments
// starting inside the lead window get no reminder.
func (c *Client) Schedule(ctx context.Context, appt models.Appointment) error {
	start, err := appointmentStart(appt.Date, appt.Time)
	if err != nil {
		return err
	}

	fireAt := start.Add(-c.lead)
	if !fireAt.After(utils.Now()) {
		utils.GetLogger().Debug("appointment too soon for a reminder",
			zap.String("appointmentId", appt.ID))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		AppointmentID: appt.ID,
		ContactNumber: appt.ContactNumber,
		Date:          appt.Date,
		Time:          appt.Time,
	}, fireAt)
	if err != nil {
		return err
	}

	if _, err := c.inner.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// Close releases the underlying queue connection.
func (c *Client) Close() error {
	return c.inner.Close()
}

func appointmentStart(date, timeOfDay string) (time.Time, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := utils.ParseTime(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, utils.Location()), nil
}
