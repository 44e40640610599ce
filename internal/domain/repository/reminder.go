package repository

import (
	"context"
	"time"

	"qurainbot/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder data operations.
// Methods taking a userID only ever touch rows owned by that user.
type ReminderRepository interface {
	// Create inserts a new reminder and fills in its ID.
	Create(ctx context.Context, reminder *entity.Reminder) error
	// FindOwned retrieves a reminder by ID, scoped to its owner.
	FindOwned(ctx context.Context, userID string, id uint) (*entity.Reminder, error)
	// FindActiveByUserID retrieves active reminders for a user, soonest first.
	FindActiveByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error)
	// FindDueIDs returns the IDs of active reminders with remind_at <= now.
	FindDueIDs(ctx context.Context, now time.Time) ([]uint, error)
	// Update saves all fields of an existing reminder.
	Update(ctx context.Context, reminder *entity.Reminder) error
	// DeleteOwned removes one reminder. It returns false when nothing matched.
	DeleteOwned(ctx context.Context, userID string, id uint) (bool, error)
	// DeleteByUserID removes all of a user's reminders and returns the count.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	// DeactivateByUserID sets active=false on all of a user's reminders.
	DeactivateByUserID(ctx context.Context, userID string) (int64, error)
	// WithinDueTx runs fn inside one database transaction.
	WithinDueTx(ctx context.Context, fn func(tx DueReminderTx) error) error
}

// DueReminderTx is the set of operations the dispatcher performs on a single
// reminder while holding its transaction.
type DueReminderTx interface {
	// LockDue re-reads the reminder and returns it only if it is still active
	// and due at now. On PostgreSQL the row stays locked until commit.
	LockDue(ctx context.Context, id uint, now time.Time) (*entity.Reminder, error)
	// Save persists the fired reminder.
	Save(ctx context.Context, reminder *entity.Reminder) error
	// IncrementSent bumps the user's reminders_sent counter, creating the row if needed.
	IncrementSent(ctx context.Context, userID string) error
}

// StatsRepository reads per-user delivery counters.
type StatsRepository interface {
	// SentCount returns how many notifications a user has received, 0 if none.
	SentCount(ctx context.Context, userID string) (int, error)
}
