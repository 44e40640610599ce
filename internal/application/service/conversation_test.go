package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qurainbot/internal/domain/constant"
)

func TestConversation_OilChange(t *testing.T) {
	env := newTestEnv(t)

	reply := env.say(t, alice, "20")
	assert.Contains(t, reply, "خدمة المنبه")
	assert.Equal(t, constant.StateReminderMenu, env.state(t, alice))

	reply = env.say(t, alice, "1")
	assert.Equal(t, oilPrompt+navFooter, reply)
	assert.Equal(t, constant.StateAwaitingOilMonths, env.state(t, alice))

	reply = env.say(t, alice, "2")
	assert.Contains(t, reply, "بعد 2 شهر")
	assert.Equal(t, constant.StateMainMenu, env.state(t, alice))

	list := env.active(t, alice)
	require.Len(t, list, 1)
	r := list[0]
	assert.Equal(t, "تغيير الزيت", r.ReminderType)
	assert.Equal(t, constant.KindOilChange, r.Kind)
	assert.True(t, r.RemindAt.Equal(startTime.AddDate(0, 0, 60)))
	assert.Nil(t, r.IntervalMinutes)
	assert.True(t, r.Active)
}

func TestConversation_OilChangeInvalidChoice(t *testing.T) {
	env := newTestEnv(t)

	reply := env.say(t, alice, "20", "1", "7")
	assert.Contains(t, reply, invalidChoiceText)
	assert.Equal(t, constant.StateAwaitingOilMonths, env.state(t, alice))
	assert.Empty(t, env.active(t, alice))
}

func TestConversation_AppointmentFiresDayBefore(t *testing.T) {
	tests := []struct {
		name string
		date string
		time string
	}{
		{name: "ascii digits", date: "17-08-2025", time: "09:00"},
		{name: "arabic digits and slashes", date: "١٧/٠٨/٢٠٢٥", time: "٠٩:٠٠"},
		{name: "two digit year with dots", date: "17.8.25", time: "9:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			env.say(t, alice, "20", "2")
			assert.Equal(t, constant.StateAwaitingDate, env.state(t, alice))
			env.say(t, alice, tt.date)
			assert.Equal(t, constant.StateAwaitingTime, env.state(t, alice))
			env.say(t, alice, tt.time)
			assert.Equal(t, constant.StateAwaitingMessage, env.state(t, alice))
			reply := env.say(t, alice, "تخطي")
			assert.Contains(t, reply, "✅")

			list := env.active(t, alice)
			require.Len(t, list, 1)
			assert.True(t, list[0].RemindAt.Equal(time.Date(2025, time.August, 16, 9, 0, 0, 0, riyadh)), list[0].RemindAt)
			assert.Equal(t, "موعد", list[0].ReminderType)
			assert.Nil(t, list[0].Message)
			assert.Nil(t, list[0].IntervalMinutes)
		})
	}
}

func TestConversation_AppointmentDayBeforeMustNotBePast(t *testing.T) {
	env := newTestEnv(t)

	reply := env.say(t, alice, "20", "2", "10-08-2025")
	assert.Contains(t, reply, pastDateText)
	assert.Equal(t, constant.StateAwaitingDate, env.state(t, alice))

	env.say(t, alice, "11-08-2025")
	assert.Equal(t, constant.StateAwaitingTime, env.state(t, alice))
}

func TestConversation_Istighfar(t *testing.T) {
	env := newTestEnv(t)

	reply := env.say(t, alice, "منبّه", "3", "2")
	assert.Contains(t, reply, "كل 60 دقيقة")

	list := env.active(t, alice)
	require.Len(t, list, 1)
	assert.Equal(t, 60, *list[0].IntervalMinutes)
	assert.True(t, list[0].RemindAt.Equal(startTime.Add(time.Hour)))
}

func TestConversation_FridayIsWeekly(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "تذكير", "4")
	assert.Equal(t, constant.StateAwaitingTime, env.state(t, alice))
	reply := env.say(t, alice, "10:00")
	assert.Contains(t, reply, "أسبوعيًا")

	list := env.active(t, alice)
	require.Len(t, list, 1)
	assert.Equal(t, constant.KindFriday, list[0].Kind)
	assert.Equal(t, constant.MinutesPerWeek, *list[0].IntervalMinutes)
	assert.True(t, list[0].RemindAt.Equal(time.Date(2025, time.August, 15, 10, 0, 0, 0, riyadh)))
}

func TestConversation_MedicineWithMessageAndRepeat(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "5", "20-08-25", "08:30")
	reply := env.say(t, alice, "  حبة الضغط  ")
	assert.Equal(t, repeatPrompt+navFooter, reply)
	reply = env.say(t, alice, "2")
	assert.Contains(t, reply, "يوميًا")
	assert.Contains(t, reply, "حبة الضغط")

	list := env.active(t, alice)
	require.Len(t, list, 1)
	assert.Equal(t, "حبة الضغط", list[0].MessageText())
	assert.Equal(t, constant.MinutesPerDay, *list[0].IntervalMinutes)
	assert.True(t, list[0].RemindAt.Equal(time.Date(2025, time.August, 20, 8, 30, 0, 0, riyadh)))
}

func TestConversation_CustomRepeatOnceStoresNullInterval(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "6", "12-08-2025", "skip", "اجتماع", "1")
	list := env.active(t, alice)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].IntervalMinutes)
	assert.True(t, list[0].RemindAt.Equal(time.Date(2025, time.August, 12, 0, 0, 0, 0, riyadh)))
}

func TestConversation_InvalidInputRePrompts(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "6")
	for _, bad := range []string{"32-13-2025", "غدا", "2025-08-12"} {
		reply := env.say(t, alice, bad)
		assert.Contains(t, reply, invalidDateText)
		assert.Equal(t, constant.StateAwaitingDate, env.state(t, alice))
	}

	reply := env.say(t, alice, "01-01-2024")
	assert.Contains(t, reply, pastDateText)

	env.say(t, alice, "10-08-2025")
	reply = env.say(t, alice, "25:00")
	assert.Contains(t, reply, invalidTimeText)
	reply = env.say(t, alice, "11:00")
	assert.Contains(t, reply, pastTimeText)
	assert.Equal(t, constant.StateAwaitingTime, env.state(t, alice))

	env.say(t, alice, "18:45")
	assert.Equal(t, constant.StateAwaitingMessage, env.state(t, alice))
}

func TestConversation_BackNavigation(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "6", "15-08-2025")
	assert.Equal(t, constant.StateAwaitingTime, env.state(t, alice))

	reply := env.say(t, alice, "00")
	assert.Equal(t, datePrompt+navFooter, reply)
	assert.Equal(t, constant.StateAwaitingDate, env.state(t, alice))

	reply = env.say(t, alice, "٠٠")
	assert.Equal(t, reminderMenuText, reply)
	assert.Equal(t, constant.StateReminderMenu, env.state(t, alice))

	reply = env.say(t, alice, "00")
	assert.Equal(t, env.directory.MainMenu(), reply)
	assert.Equal(t, constant.StateMainMenu, env.state(t, alice))

	reply = env.say(t, alice, "00")
	assert.Equal(t, env.directory.MainMenu(), reply)
}

func TestConversation_MainMenuWordsReset(t *testing.T) {
	for _, word := range []string{"0", "٠", "رجوع", "عودة", "القائمة"} {
		t.Run(word, func(t *testing.T) {
			env := newTestEnv(t)
			env.say(t, alice, "20", "5")
			reply := env.say(t, alice, word)
			assert.Equal(t, env.directory.MainMenu(), reply)
			assert.Equal(t, constant.StateMainMenu, env.state(t, alice))
		})
	}
}

func TestConversation_StopDeactivatesEverything(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.say(t, alice, "20", "3", "1")
	env.say(t, alice, "20", "1", "1")
	env.say(t, bob, "20", "3", "1")
	env.say(t, alice, "20", "6")

	reply := env.say(t, alice, "توقف")
	assert.Equal(t, stoppedText, reply)
	assert.Equal(t, constant.StateMainMenu, env.state(t, alice))
	assert.Empty(t, env.active(t, alice))

	env.clock.Advance(24 * time.Hour)
	result := env.dispatcher.RunOnce(ctx)
	assert.Empty(t, env.sender.SentTo(alice))
	assert.Len(t, env.sender.SentTo(bob), 1)
	assert.Equal(t, 1, result.SentCount)

	assert.Zero(t, env.dispatcher.RunOnce(ctx).SentCount)
	assert.Len(t, env.sender.SentTo(bob), 1)
}

func TestConversation_DeleteCommands(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "3", "1")
	env.say(t, alice, "20", "3", "2")
	env.say(t, bob, "20", "3", "3")
	aliceList := env.active(t, alice)
	bobList := env.active(t, bob)
	require.Len(t, aliceList, 2)
	require.Len(t, bobList, 1)

	reply := env.say(t, alice, fmt.Sprintf("حذف %d", bobList[0].ID))
	assert.Equal(t, fmt.Sprintf(notFoundFormat, bobList[0].ID), reply)
	assert.Len(t, env.active(t, bob), 1)

	reply = env.say(t, alice, fmt.Sprintf("حذف  %d", aliceList[0].ID))
	assert.Equal(t, fmt.Sprintf(deletedOneFormat, aliceList[0].ID), reply)
	assert.Len(t, env.active(t, alice), 1)

	reply = env.say(t, alice, "حذف")
	assert.Equal(t, fmt.Sprintf(deletedAllFormat, 1), reply)
	assert.Empty(t, env.active(t, alice))

	reply = env.say(t, alice, "حذف")
	assert.Equal(t, nothingToDelete, reply)
}

func TestConversation_EditReschedulesAndReactivates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.say(t, alice, "20", "2", "20-08-2025", "10:00", "طبيب الأسنان")
	list := env.active(t, alice)
	require.Len(t, list, 1)
	id := list[0].ID
	_, err := env.reminders.StopAll(ctx, alice)
	require.NoError(t, err)

	reply := env.say(t, alice, fmt.Sprintf("تعديل %d", id))
	assert.Contains(t, reply, fmt.Sprintf("رقم %d", id))
	assert.Contains(t, reply, appointmentDatePrompt)
	assert.Equal(t, constant.StateAwaitingDate, env.state(t, alice))

	env.say(t, alice, "25-08-2025")
	reply = env.say(t, alice, "07:15")
	assert.Contains(t, reply, "2025-08-24 07:15")
	assert.Equal(t, constant.StateMainMenu, env.state(t, alice))

	r := env.reminder(t, alice, id)
	assert.True(t, r.Active)
	assert.True(t, r.RemindAt.Equal(time.Date(2025, time.August, 24, 7, 15, 0, 0, riyadh)))
	assert.Equal(t, "طبيب الأسنان", r.MessageText())

	reply = env.say(t, bob, fmt.Sprintf("تعديل %d", id))
	assert.Equal(t, fmt.Sprintf(notFoundFormat, id), reply)
}

func TestConversation_ListAndStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	reply := env.say(t, alice, "20", "7")
	assert.Equal(t, noRemindersText, reply)

	env.say(t, alice, "20", "3", "1")
	list := env.active(t, alice)
	require.Len(t, list, 1)

	reply = env.say(t, alice, "20", "7")
	assert.Contains(t, reply, fmt.Sprintf("#%d استغفار", list[0].ID))
	assert.Contains(t, reply, "كل 30 دقيقة")
	assert.Equal(t, constant.StateMainMenu, env.state(t, alice))

	env.clock.Advance(31 * time.Minute)
	env.dispatcher.RunOnce(ctx)

	reply = env.say(t, alice, "20", "8")
	assert.Equal(t, fmt.Sprintf(statsFormat, 1, 1), reply)
}

func TestConversation_DirectoryFallback(t *testing.T) {
	env := newTestEnv(t)

	reply := env.say(t, alice, "1")
	assert.Contains(t, reply, "صيدلية ركن أطلس")
	assert.Contains(t, reply, "صيدلية دواء القصيم")

	reply = env.say(t, alice, "صيدليات مفتوحة")
	assert.Contains(t, reply, "صيدلية ركن أطلس")
	assert.Contains(t, reply, "صيدلية دواء القصيم")

	env.clock.Advance(2 * time.Hour)
	reply = env.say(t, alice, "1 مفتوح")
	assert.Equal(t, noOpenPharmacyText, reply)

	reply = env.say(t, alice, "12:15")
	assert.Equal(t, helpText, reply)

	reply = env.say(t, alice, "٣")
	assert.Contains(t, reply, "الدوائر الحكومية")
}

func TestConversation_SessionExpires(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20")
	env.clock.Advance(31 * time.Minute)

	reply := env.say(t, alice, "1")
	assert.Contains(t, reply, "صيدلية", "expired dialog falls back to the directory")
	assert.Empty(t, env.active(t, alice))
}

func TestConversation_UsersAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	env.say(t, alice, "20", "1")
	assert.Equal(t, constant.StateMainMenu, env.state(t, bob))

	reply := env.say(t, bob, "2")
	assert.NotContains(t, reply, "الزيت")
	assert.Equal(t, constant.StateAwaitingOilMonths, env.state(t, alice))
}
