package repository

import (
	"context"
	"time"

	"qurainbot/internal/domain/entity"
)

// SessionRepository stores per-user dialog state.
type SessionRepository interface {
	// Get returns the session if present and not expired at now, otherwise nil.
	Get(ctx context.Context, userID string, now time.Time) (*entity.Session, error)
	// Upsert creates or overwrites the user's session.
	Upsert(ctx context.Context, session *entity.Session) error
	// Delete removes the user's session. Deleting a missing session is not an error.
	Delete(ctx context.Context, userID string) error
	// PurgeExpired removes sessions whose expires_at is before now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
