package service

import (
	"context"

	"qurainbot/internal/domain/entity"
)

// SessionService tracks where each user is in the reminder dialog.
type SessionService interface {
	// Get returns the user's dialog, or nil when the user is on the main menu.
	Get(ctx context.Context, userID string) (*entity.Dialog, error)
	// Set stores the dialog and renews its expiry. A nil dialog clears the session.
	Set(ctx context.Context, userID string, dialog *entity.Dialog) error
	// Clear returns the user to the main menu.
	Clear(ctx context.Context, userID string) error
	// PurgeExpired removes all sessions past their TTL.
	PurgeExpired(ctx context.Context) (int64, error)
}
