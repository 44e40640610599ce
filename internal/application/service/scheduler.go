package service

import "context"

// SchedulerService wires periodic jobs onto the in-process cron scheduler.
type SchedulerService interface {
	// Start registers the configured jobs and starts the scheduler. An empty
	// dispatch spec leaves dispatching to the external HTTP trigger.
	Start(ctx context.Context) error
	// Stop stops the scheduler and waits for running jobs.
	Stop()
}
