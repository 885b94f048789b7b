package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/service"
)

// Scheduler periodically re-runs the recategorization sweep so that pattern
// changes made through the API are eventually applied without a manual
// trigger.
type Scheduler struct {
	Sweeper  *service.Sweeper
	Schedule string
	Log      *zap.Logger

	cron *cron.Cron
}

// Start registers and starts the sweep job. Returns an error for an invalid
// cron expression.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.Schedule, func() {
		updated, err := s.Sweeper.RedoCategorization(ctx)
		if err != nil {
			s.Log.Error("scheduled sweep failed", zap.Error(err))
			return
		}
		s.Log.Info("scheduled sweep done", zap.Int("swept", len(updated)))
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.Log.Info("sweep scheduler started", zap.String("schedule", s.Schedule))
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
