package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/pkg/datetime"
	appErrors "qurainbot/internal/pkg/errors"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	reminder.RemindAt = datetime.Storage(reminder.RemindAt)
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("%w: failed to create reminder for user %s: %v", appErrors.ErrDatabaseOperation, reminder.UserID, err)
	}
	return nil
}

func (r *reminderRepository) FindOwned(ctx context.Context, userID string, id uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", appErrors.ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to find reminder %d: %v", appErrors.ErrDatabaseOperation, id, err)
	}
	return &reminder, nil
}

func (r *reminderRepository) FindActiveByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("remind_at asc, id asc").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find active reminders for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return reminders, nil
}

func (r *reminderRepository) FindDueIDs(ctx context.Context, now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("active = ? AND remind_at <= ?", true, datetime.Storage(now)).
		Order("remind_at asc, id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select due reminders: %v", appErrors.ErrDatabaseOperation, err)
	}
	return ids, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *entity.Reminder) error {
	reminder.RemindAt = datetime.Storage(reminder.RemindAt)
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("%w: failed to update reminder %d: %v", appErrors.ErrDatabaseOperation, reminder.ID, err)
	}
	return nil
}

func (r *reminderRepository) DeleteOwned(ctx context.Context, userID string, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&entity.Reminder{})
	if res.Error != nil {
		return false, fmt.Errorf("%w: failed to delete reminder %d: %v", appErrors.ErrDatabaseOperation, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *reminderRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Reminder{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: failed to delete reminders for user %s: %v", appErrors.ErrDatabaseOperation, userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *reminderRepository) DeactivateByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: failed to deactivate reminders for user %s: %v", appErrors.ErrDatabaseOperation, userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *reminderRepository) WithinDueTx(ctx context.Context, fn func(tx repository.DueReminderTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&dueReminderTx{tx: tx})
	})
}

// dueReminderTx must only use tx: with a single SQLite connection any query
// on the outer handle would block until the transaction ends.
type dueReminderTx struct {
	tx *gorm.DB
}

func (t *dueReminderTx) LockDue(ctx context.Context, id uint, now time.Time) (*entity.Reminder, error) {
	q := t.tx.WithContext(ctx)
	if isPostgres(t.tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	var reminder entity.Reminder
	err := q.Where("id = ? AND active = ? AND remind_at <= ?", id, true, datetime.Storage(now)).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to lock reminder %d: %v", appErrors.ErrDatabaseOperation, id, err)
	}
	return &reminder, nil
}

func (t *dueReminderTx) Save(ctx context.Context, reminder *entity.Reminder) error {
	reminder.RemindAt = datetime.Storage(reminder.RemindAt)
	if err := t.tx.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("%w: failed to save fired reminder %d: %v", appErrors.ErrDatabaseOperation, reminder.ID, err)
	}
	return nil
}

func (t *dueReminderTx) IncrementSent(ctx context.Context, userID string) error {
	now := t.tx.NowFunc()
	stat := entity.ReminderStat{UserID: userID, RemindersSent: 1, UpdatedAt: now}
	err := t.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reminders_sent": gorm.Expr("reminder_stats.reminders_sent + 1"),
			"updated_at":     now,
		}),
	}).Create(&stat).Error
	if err != nil {
		return fmt.Errorf("%w: failed to increment stats for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return nil
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SentCount(ctx context.Context, userID string) (int, error) {
	var stat entity.ReminderStat
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: failed to read stats for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return stat.RemindersSent, nil
}
