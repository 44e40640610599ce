package service

import (
	"fmt"
	"strings"
	"time"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
	"qurainbot/internal/pkg/datetime"
)

// Keywords, compared after textnorm.Normalize.
const (
	stopWord   = "توقف"
	deleteWord = "حذف"
	editWord   = "تعديل"
	backWord   = "00"
)

var (
	mainMenuWords    = map[string]bool{"0": true, "رجوع": true, "عودة": true, "القائمة": true}
	reminderTriggers = map[string]bool{"20": true, "منبه": true, "تذكير": true}
)

// Reminder menu choices.
const (
	choiceOil         = "1"
	choiceAppointment = "2"
	choiceIstighfar   = "3"
	choiceFriday      = "4"
	choiceMedicine    = "5"
	choiceCustom      = "6"
	choiceList        = "7"
	choiceStats       = "8"
)

var oilMonthChoices = map[string]int{"1": 1, "2": 2, "3": 3}

const (
	navFooter = "\n\n00 للرجوع خطوة | 0 للقائمة الرئيسية"

	reminderMenuText = "*🔔 خدمة المنبه - اختر ما تود التذكير به:*\n\n" +
		"1️⃣ تغيير الزيت\n" +
		"2️⃣ موعد مستشفى أو مناسبة\n" +
		"3️⃣ تذكير استغفار\n" +
		"4️⃣ تذكير الصلاة على النبي ﷺ يوم الجمعة\n" +
		"5️⃣ تذكير بأخذ الدواء\n" +
		"6️⃣ تذكير مخصص\n" +
		"7️⃣ عرض تذكيراتي\n" +
		"8️⃣ إحصائياتي\n\n" +
		"🛑 أرسل 'توقف' لإيقاف أي تنبيهات مفعّلة."

	oilPrompt = "🛢️ *كم المدة التي ترغب أن نذكرك بعدها لتغيير الزيت؟*\n\n" +
		"1️⃣ شهر\n" +
		"2️⃣ شهرين\n" +
		"3️⃣ 3 أشهر"

	istighfarPrompt = "🧎‍♂️ *كم مرة ترغب بالتذكير بالاستغفار؟*\n\n" +
		"1️⃣ كل نصف ساعة\n" +
		"2️⃣ كل ساعة\n" +
		"3️⃣ كل ساعتين"

	appointmentDatePrompt = "📅 أرسل تاريخ الموعد بصيغة يوم-شهر-سنة مثل 17-08-2025\nسنذكرك قبل الموعد بيوم."
	datePrompt            = "📅 أرسل تاريخ التذكير بصيغة يوم-شهر-سنة مثل 17-08-2025"
	timePrompt            = "🕒 أرسل الوقت بصيغة 24 ساعة مثل 09:00 أو أرسل 'تخطي'."
	fridayTimePrompt      = "🕒 في أي ساعة يوم الجمعة تريد التذكير؟ أرسل الوقت مثل 10:00 أو 'تخطي'."
	messagePrompt         = "✏️ أرسل نص التذكير أو أرسل 'تخطي'."

	repeatPrompt = "🔁 *هل تريد تكرار التذكير؟*\n\n" +
		"1️⃣ بدون تكرار\n" +
		"2️⃣ يوميًا\n" +
		"3️⃣ أسبوعيًا\n" +
		"4️⃣ شهريًا"

	invalidChoiceText = "❗ اختيار غير صحيح."
	invalidDateText   = "❗ صيغة التاريخ غير صحيحة."
	invalidTimeText   = "❗ صيغة الوقت غير صحيحة."
	pastDateText      = "❗ لا يمكن ضبط تذكير في تاريخ مضى."
	pastTimeText      = "❗ هذا الوقت قد مضى، أرسل وقتًا لاحقًا."
	genericFailure    = "⚠️ حدث خطأ أثناء معالجة طلبك، حاول مرة أخرى لاحقًا."

	stoppedText      = "🛑 تم إيقاف جميع التنبيهات بنجاح."
	noRemindersText  = "📭 لا توجد لديك تذكيرات نشطة."
	nothingToDelete  = "📭 لا توجد لديك تذكيرات لحذفها."
	deletedAllFormat = "🗑️ تم حذف جميع تذكيراتك (%d)."
	deletedOneFormat = "🗑️ تم حذف التذكير رقم %d."
	notFoundFormat   = "❗ لا يوجد تذكير بالرقم %d."
	editHeaderFormat = "✏️ تعديل التذكير رقم %d (%s)\n\n"
	editedFormat     = "✅ تم تعديل التذكير رقم %d إلى %s."
	oilSavedFormat   = "✅ تم ضبط تذكير تغيير الزيت بعد %d شهر.\n🕒 %s"
	istighfarFormat  = "✅ تم ضبط تذكير الاستغفار كل %d دقيقة."
	statsFormat      = "📊 عدد التذكيرات التي وصلتك: %d\n🔔 التذكيرات النشطة حاليًا: %d"
	listFooter       = "لحذف تذكير أرسل: حذف رقم التذكير\nلتعديل موعده أرسل: تعديل رقم التذكير"
)

// prompt renders the question asked in the dialog's current state.
func prompt(d *entity.Dialog) string {
	switch d.State {
	case constant.StateReminderMenu:
		return reminderMenuText
	case constant.StateAwaitingOilMonths:
		return oilPrompt + navFooter
	case constant.StateAwaitingIstighfarInterval:
		return istighfarPrompt + navFooter
	case constant.StateAwaitingDate:
		if d.Kind == constant.KindAppointment {
			return appointmentDatePrompt + navFooter
		}
		return datePrompt + navFooter
	case constant.StateAwaitingTime:
		if d.Kind == constant.KindFriday {
			return fridayTimePrompt + navFooter
		}
		return timePrompt + navFooter
	case constant.StateAwaitingMessage:
		return messagePrompt + navFooter
	case constant.StateAwaitingRepeat:
		return repeatPrompt + navFooter
	default:
		return reminderMenuText
	}
}

// withError prefixes the current prompt with an error line.
func withError(errText string, d *entity.Dialog) string {
	return errText + "\n\n" + prompt(d)
}

func intervalLabel(minutes int) string {
	switch minutes {
	case 0:
		return "مرة واحدة"
	case constant.MinutesPerDay:
		return "يوميًا"
	case constant.MinutesPerWeek:
		return "أسبوعيًا"
	case constant.MinutesPerMonth:
		return "شهريًا"
	}
	return fmt.Sprintf("كل %d دقيقة", minutes)
}

func savedText(r *entity.Reminder, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ تم ضبط تذكير %s\n🕒 %s", r.ReminderType, datetime.Format(r.RemindAt, loc))
	if r.IsRecurring() {
		fmt.Fprintf(&b, "\n🔁 %s", intervalLabel(*r.IntervalMinutes))
	}
	if msg := r.MessageText(); msg != "" {
		fmt.Fprintf(&b, "\n📝 %s", msg)
	}
	return b.String()
}

func listText(reminders []dto.ReminderResponse, loc *time.Location) string {
	if len(reminders) == 0 {
		return noRemindersText
	}
	var b strings.Builder
	b.WriteString("📋 *تذكيراتك النشطة:*\n")
	for _, r := range reminders {
		fmt.Fprintf(&b, "\n#%d %s\n🕒 %s | %s\n", r.ID, r.Type, datetime.Format(r.RemindAt, loc), intervalLabel(r.IntervalMinutes))
		if r.Message != "" {
			fmt.Fprintf(&b, "📝 %s\n", r.Message)
		}
	}
	b.WriteString("\n" + listFooter)
	return b.String()
}

func isSkip(norm string) bool {
	for _, w := range datetime.SkipWords {
		if norm == w {
			return true
		}
	}
	return false
}
