// Package cron runs the periodic background jobs.
package cron

import (
	"context"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirySweeper periodically marks past scheduled appointments as
// completed so retrievals and summaries reflect reality without a
// write on every read.
type ExpirySweeper struct {
	runner       *cron.Cron
	appointments appointmentRepo.AppointmentRepository
}

// NewExpirySweeper builds the sweeper on the business timezone clock.
func NewExpirySweeper(appointments appointmentRepo.AppointmentRepository) *ExpirySweeper {
	return &ExpirySweeper{
		runner:       cron.New(cron.WithLocation(utils.Location())),
		appointments: appointments,
	}
}

// Start schedules the sweep every 15 minutes and runs one immediately
// to catch up after a restart.
func (s *ExpirySweeper) Start() error {
	if _, err := s.runner.AddFunc("*/15 * * * *", s.sweep); err != nil {
		return err
	}
	s.runner.Start()
	go s.sweep()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	ctx := s.runner.Stop()
	<-ctx.Done()
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := utils.Now()
	count, err := s.appointments.MarkCompletedBefore(ctx, now.Format(utils.DateLayout), now.Format(utils.TimeLayout))
	if err != nil {
		utils.GetLogger().Error("appointment expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		utils.GetLogger().Info("appointments marked completed", zap.Int64("count", count))
	}
}
