package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/infrastructure/database"
	"qurainbot/internal/infrastructure/whatsapp"
	"qurainbot/internal/pkg/logger"
)

const (
	alice = "966500000001@c.us"
	bob   = "966500000002@c.us"
)

var riyadh = time.FixedZone("AST", 3*3600)

// Sunday 2025-08-10 12:00 in the bot's zone.
var startTime = time.Date(2025, time.August, 10, 12, 0, 0, 0, riyadh)

type testEnv struct {
	clock        *clockwork.FakeClock
	sender       *whatsapp.Recorder
	reminderRepo repository.ReminderRepository
	sessions     SessionService
	reminders    ReminderService
	directory    DirectoryService
	conversation ConversationService
	dispatcher   DispatcherService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "bot.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	log := logger.Nop()
	clock := clockwork.NewFakeClockAt(startTime)
	sender := whatsapp.NewRecorder()
	reminderRepo := database.NewReminderRepository(db)

	sessions := NewSessionService(database.NewSessionRepository(db), clock, 30*time.Minute, log)
	reminders := NewReminderService(reminderRepo, database.NewStatsRepository(db), clock, log)
	directory := NewDirectoryService(database.NewCategoryRepository(db), clock, riyadh, log)

	return &testEnv{
		clock:        clock,
		sender:       sender,
		reminderRepo: reminderRepo,
		sessions:     sessions,
		reminders:    reminders,
		directory:    directory,
		conversation: NewConversationService(sessions, reminders, directory, clock, riyadh, log),
		dispatcher: NewDispatcherService(reminderRepo, sender, clock, riyadh,
			DispatcherOptions{Attempts: 3, Backoff: time.Millisecond}, log),
	}
}

// say sends each message in turn and returns the last reply.
func (e *testEnv) say(t *testing.T, user string, messages ...string) string {
	t.Helper()
	var reply string
	for _, m := range messages {
		reply = e.conversation.HandleMessage(context.Background(), user, m)
	}
	return reply
}

func (e *testEnv) state(t *testing.T, user string) constant.DialogState {
	t.Helper()
	d, err := e.sessions.Get(context.Background(), user)
	require.NoError(t, err)
	if d == nil {
		return constant.StateMainMenu
	}
	return d.State
}

// seedDue stores a reminder directly, bypassing the future-time check.
func (e *testEnv) seedDue(t *testing.T, user string, kind constant.ReminderKind, at time.Time, interval int) *entity.Reminder {
	t.Helper()
	r := &entity.Reminder{
		UserID:          user,
		ReminderType:    kind.Label(),
		Kind:            kind,
		RemindAt:        at,
		IntervalMinutes: entity.IntervalPtr(interval),
		Active:          true,
	}
	require.NoError(t, e.reminderRepo.Create(context.Background(), r))
	return r
}

func (e *testEnv) reminder(t *testing.T, user string, id uint) *entity.Reminder {
	t.Helper()
	r, err := e.reminders.Get(context.Background(), user, id)
	require.NoError(t, err)
	return r
}

func (e *testEnv) active(t *testing.T, user string) []*entity.Reminder {
	t.Helper()
	list, err := e.reminderRepo.FindActiveByUserID(context.Background(), user)
	require.NoError(t, err)
	return list
}
