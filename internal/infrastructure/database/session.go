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

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a session store backed by the sessions table.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Get drops the row when it has already expired.
func (r *sessionRepository) Get(ctx context.Context, userID string, now time.Time) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read session for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	if !session.ExpiresAt.After(now) {
		if err := r.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	session.ExpiresAt = datetime.Storage(session.ExpiresAt)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dialog", "expires_at", "updated_at"}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("%w: failed to save session for user %s: %v", appErrors.ErrDatabaseOperation, session.UserID, err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Session{}).Error; err != nil {
		return fmt.Errorf("%w: failed to delete session for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return nil
}

func (r *sessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", datetime.Storage(now)).Delete(&entity.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: failed to purge expired sessions: %v", appErrors.ErrDatabaseOperation, res.Error)
	}
	return res.RowsAffected, nil
}
