// Package tasks runs the background jobs that keep stored plans in sync
// with user profiles.
package tasks

import (
	"context"
	"time"

	"fitpact/fitness-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const regenerateBatchSize = 50

// Scheduler owns the cron runner for periodic maintenance jobs.
type Scheduler struct {
	cron        *cron.Cron
	planService service.PlanService
	log         zerolog.Logger
}

// NewScheduler creates a scheduler over the given plan service.
func NewScheduler(planService service.PlanService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		planService: planService,
		log:         log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the stale-plan sweep on the given cron expression and
// starts the runner. The sweep regenerates plans flagged stale by profile
// changes, in batches, off the request path.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.sweepStalePlans)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", spec).Msg("stale plan sweep scheduled")
	return nil
}

// Stop halts the cron runner and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweepStalePlans() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	started := time.Now()
	count, err := s.planService.RegenerateStalePlans(ctx, regenerateBatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("stale plan sweep failed")
		return
	}
	s.log.Info().Int("regenerated", count).Dur("elapsed", time.Since(started)).Msg("stale plan sweep completed")
}
