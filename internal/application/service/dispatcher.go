package service

import (
	"context"

	"qurainbot/internal/application/dto"
)

// DispatcherService sends due reminders.
type DispatcherService interface {
	// RunOnce sends every active reminder whose fire time has passed, then
	// advances recurring ones and deactivates one-shot ones. A run that starts
	// while another is in progress returns immediately with status "busy".
	RunOnce(ctx context.Context) dto.DispatchResult
}
