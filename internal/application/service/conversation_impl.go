package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/pkg/datetime"
	appErrors "qurainbot/internal/pkg/errors"
	"qurainbot/internal/pkg/logger"
	"qurainbot/internal/pkg/textnorm"
)

type conversationService struct {
	sessions  SessionService
	reminders ReminderService
	directory DirectoryService
	clock     clockwork.Clock
	loc       *time.Location
	log       logger.Logger
}

// NewConversationService creates a new instance of ConversationService implementation.
func NewConversationService(
	sessions SessionService,
	reminders ReminderService,
	directory DirectoryService,
	clock clockwork.Clock,
	loc *time.Location,
	log logger.Logger,
) ConversationService {
	return &conversationService{
		sessions:  sessions,
		reminders: reminders,
		directory: directory,
		clock:     clock,
		loc:       loc,
		log:       log,
	}
}

func (s *conversationService) HandleMessage(ctx context.Context, userID, text string) string {
	raw := strings.TrimSpace(text)
	norm := textnorm.Normalize(raw)

	if reply, ok := s.handleCommand(ctx, userID, norm); ok {
		return reply
	}

	dialog, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return genericFailure
	}
	if dialog != nil {
		return s.step(ctx, userID, dialog, norm, raw)
	}

	if reminderTriggers[norm] {
		d := &entity.Dialog{}
		d.Advance(constant.StateReminderMenu)
		return s.saveAndPrompt(ctx, userID, d)
	}
	return s.directory.Reply(ctx, norm)
}

// handleCommand recognizes the inputs that work from any state.
func (s *conversationService) handleCommand(ctx context.Context, userID, norm string) (string, bool) {
	switch {
	case norm == stopWord:
		return s.stopAll(ctx, userID), true
	case mainMenuWords[norm]:
		if err := s.sessions.Clear(ctx, userID); err != nil {
			return genericFailure, true
		}
		return s.directory.MainMenu(), true
	case norm == backWord:
		return s.back(ctx, userID), true
	}

	keyword, arg := textnorm.Command(norm)
	switch keyword {
	case deleteWord:
		if arg == "" {
			return s.deleteAll(ctx, userID), true
		}
		if id, ok := parseID(arg); ok {
			return s.deleteOne(ctx, userID, id), true
		}
	case editWord:
		if id, ok := parseID(arg); ok {
			return s.startEdit(ctx, userID, id), true
		}
	}
	return "", false
}

func (s *conversationService) step(ctx context.Context, userID string, d *entity.Dialog, norm, raw string) string {
	switch d.State {
	case constant.StateReminderMenu:
		return s.chooseReminder(ctx, userID, d, norm)
	case constant.StateAwaitingOilMonths:
		return s.chooseOilMonths(ctx, userID, d, norm)
	case constant.StateAwaitingIstighfarInterval:
		return s.chooseIstighfarInterval(ctx, userID, d, norm)
	case constant.StateAwaitingDate:
		return s.receiveDate(ctx, userID, d, norm)
	case constant.StateAwaitingTime:
		return s.receiveTime(ctx, userID, d, norm)
	case constant.StateAwaitingMessage:
		return s.receiveMessage(ctx, userID, d, norm, raw)
	case constant.StateAwaitingRepeat:
		return s.receiveRepeat(ctx, userID, d, norm)
	default:
		_ = s.sessions.Clear(ctx, userID)
		return s.directory.MainMenu()
	}
}

func (s *conversationService) chooseReminder(ctx context.Context, userID string, d *entity.Dialog, choice string) string {
	var (
		kind constant.ReminderKind
		next constant.DialogState
	)
	switch choice {
	case choiceOil:
		kind, next = constant.KindOilChange, constant.StateAwaitingOilMonths
	case choiceAppointment:
		kind, next = constant.KindAppointment, constant.StateAwaitingDate
	case choiceIstighfar:
		kind, next = constant.KindIstighfar, constant.StateAwaitingIstighfarInterval
	case choiceFriday:
		kind, next = constant.KindFriday, constant.StateAwaitingTime
	case choiceMedicine:
		kind, next = constant.KindMedicine, constant.StateAwaitingDate
	case choiceCustom:
		kind, next = constant.KindCustom, constant.StateAwaitingDate
	case choiceList:
		return s.finishWith(ctx, userID, s.listReminders(ctx, userID))
	case choiceStats:
		return s.finishWith(ctx, userID, s.stats(ctx, userID))
	default:
		return withError(invalidChoiceText, d)
	}

	*d = entity.Dialog{State: d.State, History: d.History, Kind: kind}
	d.Advance(next)
	return s.saveAndPrompt(ctx, userID, d)
}

func (s *conversationService) chooseOilMonths(ctx context.Context, userID string, d *entity.Dialog, choice string) string {
	months, ok := oilMonthChoices[choice]
	if !ok {
		return withError(invalidChoiceText, d)
	}
	r, err := s.reminders.Create(ctx, dto.CreateReminderRequest{
		UserID:   userID,
		Kind:     constant.KindOilChange,
		RemindAt: s.clock.Now().AddDate(0, 0, constant.OilChangeMonthDays*months),
	})
	if err != nil {
		return genericFailure
	}
	return s.finishWith(ctx, userID, fmt.Sprintf(oilSavedFormat, months, datetime.Format(r.RemindAt, s.loc)))
}

func (s *conversationService) chooseIstighfarInterval(ctx context.Context, userID string, d *entity.Dialog, choice string) string {
	minutes, ok := constant.IstighfarIntervals[choice]
	if !ok {
		return withError(invalidChoiceText, d)
	}
	_, err := s.reminders.Create(ctx, dto.CreateReminderRequest{
		UserID:          userID,
		Kind:            constant.KindIstighfar,
		RemindAt:        s.clock.Now().Add(constant.MinutesToDuration(minutes)),
		IntervalMinutes: minutes,
	})
	if err != nil {
		return genericFailure
	}
	return s.finishWith(ctx, userID, fmt.Sprintf(istighfarFormat, minutes))
}

func (s *conversationService) receiveDate(ctx context.Context, userID string, d *entity.Dialog, text string) string {
	date, err := datetime.ParseDate(text)
	if err != nil {
		return withError(invalidDateText, d)
	}
	today := datetime.DateOf(s.clock.Now(), s.loc)
	if fireDay(d.Kind, date).Before(today) {
		return withError(pastDateText, d)
	}
	d.Date = date.String()
	d.Advance(constant.StateAwaitingTime)
	return s.saveAndPrompt(ctx, userID, d)
}

func (s *conversationService) receiveTime(ctx context.Context, userID string, d *entity.Dialog, text string) string {
	hour, minute, err := datetime.ParseClock(text)
	if err != nil {
		return withError(invalidTimeText, d)
	}
	now := s.clock.Now()

	if d.Kind == constant.KindFriday {
		at := datetime.NextWeekday(now, time.Friday, hour, minute, s.loc)
		if d.EditID != 0 {
			return s.finishEdit(ctx, userID, d, at)
		}
		r, err := s.reminders.Create(ctx, dto.CreateReminderRequest{
			UserID:          userID,
			Kind:            constant.KindFriday,
			RemindAt:        at,
			IntervalMinutes: constant.MinutesPerWeek,
		})
		if err != nil {
			return genericFailure
		}
		return s.finishWith(ctx, userID, savedText(r, s.loc))
	}

	at, err := s.fireTime(d, hour, minute)
	if err != nil {
		s.log.Error(fmt.Sprintf("Corrupt dialog date %q for user %s", d.Date, userID), err)
		return s.restartDate(ctx, userID, d, invalidDateText)
	}
	if !at.After(now) {
		return withError(pastTimeText, d)
	}
	d.Time = datetime.FormatClock(hour, minute)
	if d.EditID != 0 {
		return s.finishEdit(ctx, userID, d, at)
	}
	d.Advance(constant.StateAwaitingMessage)
	return s.saveAndPrompt(ctx, userID, d)
}

func (s *conversationService) receiveMessage(ctx context.Context, userID string, d *entity.Dialog, norm, raw string) string {
	d.Message = raw
	if isSkip(norm) {
		d.Message = ""
	}
	if d.Kind == constant.KindAppointment {
		return s.finishCreate(ctx, userID, d, 0)
	}
	d.Advance(constant.StateAwaitingRepeat)
	return s.saveAndPrompt(ctx, userID, d)
}

func (s *conversationService) receiveRepeat(ctx context.Context, userID string, d *entity.Dialog, choice string) string {
	minutes, ok := constant.RepeatChoices[choice]
	if !ok {
		return withError(invalidChoiceText, d)
	}
	return s.finishCreate(ctx, userID, d, minutes)
}

// finishCreate stores the reminder collected by the date/time/message steps.
func (s *conversationService) finishCreate(ctx context.Context, userID string, d *entity.Dialog, intervalMinutes int) string {
	hour, minute, err := datetime.ParseClock(d.Time)
	if err != nil {
		return s.restartDate(ctx, userID, d, invalidTimeText)
	}
	at, err := s.fireTime(d, hour, minute)
	if err != nil {
		return s.restartDate(ctx, userID, d, invalidDateText)
	}
	r, err := s.reminders.Create(ctx, dto.CreateReminderRequest{
		UserID:          userID,
		Kind:            d.Kind,
		Message:         d.Message,
		RemindAt:        at,
		IntervalMinutes: intervalMinutes,
	})
	if errors.Is(err, appErrors.ErrDateInPast) {
		return s.restartDate(ctx, userID, d, pastDateText)
	}
	if err != nil {
		return genericFailure
	}
	return s.finishWith(ctx, userID, savedText(r, s.loc))
}

func (s *conversationService) finishEdit(ctx context.Context, userID string, d *entity.Dialog, at time.Time) string {
	r, err := s.reminders.Reschedule(ctx, dto.RescheduleReminderRequest{UserID: userID, ReminderID: d.EditID, RemindAt: at})
	switch {
	case errors.Is(err, appErrors.ErrDateInPast):
		return withError(pastTimeText, d)
	case errors.Is(err, appErrors.ErrReminderNotFound):
		return s.finishWith(ctx, userID, fmt.Sprintf(notFoundFormat, d.EditID))
	case err != nil:
		return genericFailure
	}
	return s.finishWith(ctx, userID, fmt.Sprintf(editedFormat, r.ID, datetime.Format(r.RemindAt, s.loc)))
}

// restartDate sends the user back to the date question of the same reminder kind.
func (s *conversationService) restartDate(ctx context.Context, userID string, d *entity.Dialog, errText string) string {
	nd := &entity.Dialog{State: constant.StateReminderMenu, Kind: d.Kind, EditID: d.EditID}
	nd.Advance(constant.StateAwaitingDate)
	if err := s.sessions.Set(ctx, userID, nd); err != nil {
		return genericFailure
	}
	return withError(errText, nd)
}

func (s *conversationService) back(ctx context.Context, userID string) string {
	d, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return genericFailure
	}
	if d == nil || !d.Back() || d.State == constant.StateMainMenu {
		if err := s.sessions.Clear(ctx, userID); err != nil {
			return genericFailure
		}
		return s.directory.MainMenu()
	}
	return s.saveAndPrompt(ctx, userID, d)
}

func (s *conversationService) stopAll(ctx context.Context, userID string) string {
	if _, err := s.reminders.StopAll(ctx, userID); err != nil {
		return genericFailure
	}
	return s.finishWith(ctx, userID, stoppedText)
}

func (s *conversationService) deleteAll(ctx context.Context, userID string) string {
	n, err := s.reminders.DeleteAll(ctx, userID)
	if err != nil {
		return genericFailure
	}
	if n == 0 {
		return s.finishWith(ctx, userID, nothingToDelete)
	}
	return s.finishWith(ctx, userID, fmt.Sprintf(deletedAllFormat, n))
}

func (s *conversationService) deleteOne(ctx context.Context, userID string, id uint) string {
	err := s.reminders.DeleteOne(ctx, userID, id)
	switch {
	case errors.Is(err, appErrors.ErrReminderNotFound):
		return fmt.Sprintf(notFoundFormat, id)
	case err != nil:
		return genericFailure
	}
	return s.finishWith(ctx, userID, fmt.Sprintf(deletedOneFormat, id))
}

func (s *conversationService) startEdit(ctx context.Context, userID string, id uint) string {
	r, err := s.reminders.Get(ctx, userID, id)
	switch {
	case errors.Is(err, appErrors.ErrReminderNotFound):
		return fmt.Sprintf(notFoundFormat, id)
	case err != nil:
		return genericFailure
	}
	d := &entity.Dialog{Kind: r.Kind, EditID: r.ID}
	if r.Kind == constant.KindFriday {
		d.Advance(constant.StateAwaitingTime)
	} else {
		d.Advance(constant.StateAwaitingDate)
	}
	if err := s.sessions.Set(ctx, userID, d); err != nil {
		return genericFailure
	}
	return fmt.Sprintf(editHeaderFormat, r.ID, r.ReminderType) + prompt(d)
}

func (s *conversationService) listReminders(ctx context.Context, userID string) string {
	reminders, err := s.reminders.ListActive(ctx, userID)
	if err != nil {
		return genericFailure
	}
	return listText(reminders, s.loc)
}

func (s *conversationService) stats(ctx context.Context, userID string) string {
	sent, err := s.reminders.SentCount(ctx, userID)
	if err != nil {
		return genericFailure
	}
	active, err := s.reminders.ListActive(ctx, userID)
	if err != nil {
		return genericFailure
	}
	return fmt.Sprintf(statsFormat, sent, len(active))
}

// fireTime combines the collected date with hour:minute in the bot's zone.
// Appointments fire on the day before.
func (s *conversationService) fireTime(d *entity.Dialog, hour, minute int) (time.Time, error) {
	date, err := datetime.ParseDate(d.Date)
	if err != nil {
		return time.Time{}, err
	}
	return fireDay(d.Kind, date).At(hour, minute, s.loc), nil
}

func fireDay(kind constant.ReminderKind, date datetime.Date) datetime.Date {
	if kind == constant.KindAppointment {
		return date.AddDays(-1)
	}
	return date
}

func (s *conversationService) saveAndPrompt(ctx context.Context, userID string, d *entity.Dialog) string {
	if err := s.sessions.Set(ctx, userID, d); err != nil {
		return genericFailure
	}
	return prompt(d)
}

// finishWith ends the dialog and returns reply.
func (s *conversationService) finishWith(ctx context.Context, userID, reply string) string {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to reset session for user %s", userID), err)
	}
	return reply
}

func parseID(arg string) (uint, bool) {
	if !textnorm.IsDigits(arg) {
		return 0, false
	}
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
