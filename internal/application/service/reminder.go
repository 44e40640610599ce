package service

import (
	"context"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/domain/entity"
)

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// Create stores a new active reminder. The fire time must be in the future.
	Create(ctx context.Context, req dto.CreateReminderRequest) (*entity.Reminder, error)
	// Get retrieves one of the user's reminders.
	Get(ctx context.Context, userID string, reminderID uint) (*entity.Reminder, error)
	// ListActive retrieves the user's active reminders, soonest first.
	ListActive(ctx context.Context, userID string) ([]dto.ReminderResponse, error)
	// Reschedule moves a reminder to a new future time and reactivates it.
	Reschedule(ctx context.Context, req dto.RescheduleReminderRequest) (*entity.Reminder, error)
	// DeleteOne removes one of the user's reminders.
	DeleteOne(ctx context.Context, userID string, reminderID uint) error
	// DeleteAll removes every reminder of the user and returns how many were removed.
	DeleteAll(ctx context.Context, userID string) (int64, error)
	// StopAll deactivates every reminder of the user.
	StopAll(ctx context.Context, userID string) (int64, error)
	// SentCount returns how many notifications the user has received.
	SentCount(ctx context.Context, userID string) (int, error)
}
