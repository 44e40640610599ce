package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/pkg/datetime"
	appErrors "qurainbot/internal/pkg/errors"
	"qurainbot/internal/pkg/logger"
)

type reminderService struct {
	reminderRepo repository.ReminderRepository
	statsRepo    repository.StatsRepository
	clock        clockwork.Clock
	log          logger.Logger
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	statsRepo repository.StatsRepository,
	clock clockwork.Clock,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		statsRepo:    statsRepo,
		clock:        clock,
		log:          log,
	}
}

func (s *reminderService) Create(ctx context.Context, req dto.CreateReminderRequest) (*entity.Reminder, error) {
	remindAt := datetime.Storage(req.RemindAt)
	if !remindAt.After(s.clock.Now()) {
		return nil, appErrors.ErrDateInPast
	}
	reminder := &entity.Reminder{
		UserID:          req.UserID,
		ReminderType:    req.Kind.Label(),
		Kind:            req.Kind,
		RemindAt:        remindAt,
		IntervalMinutes: entity.IntervalPtr(req.IntervalMinutes),
		Active:          true,
	}
	if msg := strings.TrimSpace(req.Message); msg != "" {
		reminder.Message = &msg
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to create reminder for user %s", req.UserID), err)
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Created %s reminder %d for user %s at %s", reminder.Kind, reminder.ID, req.UserID, remindAt.Format("2006-01-02 15:04:05Z")))
	return reminder, nil
}

func (s *reminderService) Get(ctx context.Context, userID string, reminderID uint) (*entity.Reminder, error) {
	return s.reminderRepo.FindOwned(ctx, userID, reminderID)
}

func (s *reminderService) ListActive(ctx context.Context, userID string) ([]dto.ReminderResponse, error) {
	reminders, err := s.reminderRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list reminders for user %s", userID), err)
		return nil, err
	}
	return dto.ToReminderResponseList(reminders), nil
}

func (s *reminderService) Reschedule(ctx context.Context, req dto.RescheduleReminderRequest) (*entity.Reminder, error) {
	remindAt := datetime.Storage(req.RemindAt)
	if !remindAt.After(s.clock.Now()) {
		return nil, appErrors.ErrDateInPast
	}
	reminder, err := s.reminderRepo.FindOwned(ctx, req.UserID, req.ReminderID)
	if err != nil {
		return nil, err
	}
	reminder.RemindAt = remindAt
	reminder.Active = true
	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to reschedule reminder %d", req.ReminderID), err)
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Rescheduled reminder %d for user %s", reminder.ID, req.UserID))
	return reminder, nil
}

func (s *reminderService) DeleteOne(ctx context.Context, userID string, reminderID uint) error {
	deleted, err := s.reminderRepo.DeleteOwned(ctx, userID, reminderID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete reminder %d", reminderID), err)
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: id %d", appErrors.ErrReminderNotFound, reminderID)
	}
	s.log.Info(fmt.Sprintf("Deleted reminder %d for user %s", reminderID, userID))
	return nil
}

func (s *reminderService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.reminderRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete reminders for user %s", userID), err)
		return 0, err
	}
	s.log.Info(fmt.Sprintf("Deleted %d reminders for user %s", n, userID))
	return n, nil
}

func (s *reminderService) StopAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.reminderRepo.DeactivateByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to stop reminders for user %s", userID), err)
		return 0, err
	}
	s.log.Info(fmt.Sprintf("Stopped %d reminders for user %s", n, userID))
	return n, nil
}

func (s *reminderService) SentCount(ctx context.Context, userID string) (int, error) {
	return s.statsRepo.SentCount(ctx, userID)
}
