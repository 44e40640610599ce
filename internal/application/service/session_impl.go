package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/datatypes"

	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/pkg/logger"
)

type sessionService struct {
	sessionRepo repository.SessionRepository
	clock       clockwork.Clock
	ttl         time.Duration
	log         logger.Logger
}

// NewSessionService creates a new instance of SessionService implementation.
func NewSessionService(sessionRepo repository.SessionRepository, clock clockwork.Clock, ttl time.Duration, log logger.Logger) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		clock:       clock,
		ttl:         ttl,
		log:         log,
	}
}

func (s *sessionService) Get(ctx context.Context, userID string) (*entity.Dialog, error) {
	session, err := s.sessionRepo.Get(ctx, userID, s.clock.Now())
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to read session for user %s", userID), err)
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	dialog := session.Dialog.Data()
	if !dialog.State.Valid() || dialog.State == constant.StateMainMenu {
		s.log.Warn(fmt.Sprintf("Discarding session with unknown state %q for user %s", dialog.State, userID))
		return nil, s.Clear(ctx, userID)
	}
	return &dialog, nil
}

func (s *sessionService) Set(ctx context.Context, userID string, dialog *entity.Dialog) error {
	if dialog == nil || dialog.State == constant.StateMainMenu {
		return s.Clear(ctx, userID)
	}
	session := &entity.Session{
		UserID:    userID,
		Dialog:    datatypes.NewJSONType(*dialog),
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		s.log.Error(fmt.Sprintf("Failed to save session for user %s", userID), err)
		return err
	}
	s.log.Debug(fmt.Sprintf("Session for user %s set to %s", userID, dialog.State))
	return nil
}

func (s *sessionService) Clear(ctx context.Context, userID string) error {
	if err := s.sessionRepo.Delete(ctx, userID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to clear session for user %s", userID), err)
		return err
	}
	return nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.PurgeExpired(ctx, s.clock.Now())
	if err != nil {
		s.log.Error("Failed to purge expired sessions", err)
		return 0, err
	}
	if n > 0 {
		s.log.Info(fmt.Sprintf("Purged %d expired sessions", n))
	}
	return n, nil
}
