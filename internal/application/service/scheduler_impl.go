package service

import (
	"context"
	"fmt"
	"time"

	"qurainbot/internal/infrastructure/scheduler"
	"qurainbot/internal/pkg/logger"
)

const jobTimeout = 5 * time.Minute

// SchedulerSpecs holds the cron specs of the periodic jobs.
type SchedulerSpecs struct {
	Dispatch     string
	SessionPurge string
}

type schedulerService struct {
	cronScheduler *scheduler.Scheduler
	dispatcher    DispatcherService
	sessions      SessionService
	specs         SchedulerSpecs
	log           logger.Logger
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	dispatcher DispatcherService,
	sessions SessionService,
	specs SchedulerSpecs,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cronScheduler: cronScheduler,
		dispatcher:    dispatcher,
		sessions:      sessions,
		specs:         specs,
		log:           log,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if s.specs.Dispatch != "" {
		if _, err := s.cronScheduler.AddJob("dispatch-reminders", s.specs.Dispatch, func() { s.runDispatch(ctx) }); err != nil {
			return err
		}
	} else {
		s.log.Info("DISPATCH_CRON not set, reminders are sent only via the HTTP trigger")
	}
	if s.specs.SessionPurge != "" {
		if _, err := s.cronScheduler.AddJob("purge-sessions", s.specs.SessionPurge, func() { s.runPurge(ctx) }); err != nil {
			return err
		}
	}
	s.cronScheduler.Start()
	return nil
}

func (s *schedulerService) Stop() {
	s.cronScheduler.Stop()
}

func (s *schedulerService) runDispatch(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	result := s.dispatcher.RunOnce(ctx)
	if len(result.Errors) > 0 {
		s.log.Warn(fmt.Sprintf("Scheduled dispatch %s: status %s, %d sent, %d errors", result.RunID, result.Status, result.SentCount, len(result.Errors)))
	}
}

func (s *schedulerService) runPurge(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	_, _ = s.sessions.PurgeExpired(ctx)
}
