package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/infrastructure/whatsapp"
	"qurainbot/internal/pkg/datetime"
	appErrors "qurainbot/internal/pkg/errors"
	"qurainbot/internal/pkg/logger"
)

// DispatcherOptions configures send retries.
type DispatcherOptions struct {
	// Attempts is the total number of sends tried per reminder, at least 1.
	Attempts int
	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
}

type dispatcherService struct {
	reminderRepo repository.ReminderRepository
	sender       whatsapp.Sender
	clock        clockwork.Clock
	loc          *time.Location
	opts         DispatcherOptions
	log          logger.Logger
	running      sync.Mutex
}

// NewDispatcherService creates a new instance of DispatcherService implementation.
func NewDispatcherService(
	reminderRepo repository.ReminderRepository,
	sender whatsapp.Sender,
	clock clockwork.Clock,
	loc *time.Location,
	opts DispatcherOptions,
	log logger.Logger,
) DispatcherService {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Millisecond
	}
	return &dispatcherService{
		reminderRepo: reminderRepo,
		sender:       sender,
		clock:        clock,
		loc:          loc,
		opts:         opts,
		log:          log,
	}
}

func (s *dispatcherService) RunOnce(ctx context.Context) dto.DispatchResult {
	if !s.running.TryLock() {
		s.log.Warn("Dispatcher run skipped: another run is in progress")
		result := dto.NewDispatchResult(dto.DispatchStatusBusy)
		result.Errors = append(result.Errors, appErrors.ErrDispatchInProgress.Error())
		return result
	}
	defer s.running.Unlock()

	result := dto.NewDispatchResult(dto.DispatchStatusOK)
	result.RunID = uuid.NewString()
	log := s.log.With("run_id", result.RunID)

	now := s.clock.Now()
	ids, err := s.reminderRepo.FindDueIDs(ctx, now)
	if err != nil {
		log.Error("Failed to load due reminders", err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(ids) == 0 {
		log.Debug("No due reminders")
		return result
	}
	log.Info(fmt.Sprintf("Dispatching %d due reminders", len(ids)))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("run interrupted before reminder %d: %v", id, err))
			break
		}
		sent, err := s.dispatchOne(ctx, log, id, now)
		if err != nil {
			log.Error(fmt.Sprintf("Reminder %d not delivered", id), err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if sent {
			result.SentCount++
		}
	}
	log.Info(fmt.Sprintf("Dispatcher run finished: %d sent, %d errors", result.SentCount, len(result.Errors)))
	return result
}

// dispatchOne sends a single reminder inside its own transaction. The
// reminder is only advanced or deactivated after the vendor accepted the
// message; any failure rolls back and leaves it due for the next run.
func (s *dispatcherService) dispatchOne(ctx context.Context, log logger.Logger, id uint, now time.Time) (bool, error) {
	sent := false
	err := s.reminderRepo.WithinDueTx(ctx, func(tx repository.DueReminderTx) error {
		reminder, err := tx.LockDue(ctx, id, now)
		if err != nil {
			return err
		}
		if reminder == nil {
			log.Debug(fmt.Sprintf("Reminder %d no longer due, skipping", id))
			return nil
		}

		if err := s.sendWithRetry(ctx, log, reminder.UserID, NotificationText(reminder, s.loc)); err != nil {
			return fmt.Errorf("%w: reminder %d to %s: %v", appErrors.ErrVendorSend, reminder.ID, reminder.UserID, err)
		}

		reminder.MarkFired(now)
		if err := tx.Save(ctx, reminder); err != nil {
			return err
		}
		if err := tx.IncrementSent(ctx, reminder.UserID); err != nil {
			return err
		}
		sent = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return sent, nil
}

var errNotAccepted = errors.New("message not accepted by gateway")

func (s *dispatcherService) sendWithRetry(ctx context.Context, log logger.Logger, to, body string) error {
	backoff := retry.WithMaxRetries(uint64(s.opts.Attempts-1), retry.NewConstant(s.opts.Backoff))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if s.sender.Send(ctx, to, body) {
			return nil
		}
		log.Warn(fmt.Sprintf("Send attempt %d/%d to %s failed", attempt, s.opts.Attempts, to))
		return retry.RetryableError(errNotAccepted)
	})
}

// NotificationText renders the message sent when a reminder fires.
func NotificationText(r *entity.Reminder, loc *time.Location) string {
	var b strings.Builder
	if r.Kind == constant.KindAppointment {
		b.WriteString("🩺 تذكير: غدًا موعد زيارتك للمستشفى أو مناسبتك. نتمنى لك التوفيق! 🌿\n")
	} else {
		fmt.Fprintf(&b, "⏰ تذكير: %s الآن!\n", r.ReminderType)
	}
	if msg := r.MessageText(); msg != "" {
		fmt.Fprintf(&b, "التفاصيل: %s\n", msg)
	}
	fmt.Fprintf(&b, "🕒 الوقت: %s", datetime.Format(r.RemindAt, loc))
	return b.String()
}
