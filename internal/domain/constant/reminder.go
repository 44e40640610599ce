package constant

import "time"

// ReminderKind selects how a reminder is collected and how its notification reads.
type ReminderKind string

const (
	KindOilChange   ReminderKind = "oil"
	KindAppointment ReminderKind = "appointment"
	KindIstighfar   ReminderKind = "istighfar"
	KindFriday      ReminderKind = "friday"
	KindMedicine    ReminderKind = "medicine"
	KindCustom      ReminderKind = "custom"
)

// Label is the reminder_type text stored with the record and shown to users.
func (k ReminderKind) Label() string {
	switch k {
	case KindOilChange:
		return "تغيير الزيت"
	case KindAppointment:
		return "موعد"
	case KindIstighfar:
		return "استغفار"
	case KindFriday:
		return "الصلاة على النبي ﷺ"
	case KindMedicine:
		return "أخذ الدواء"
	default:
		return "تذكير"
	}
}

// Fixed repeat intervals, in minutes. A month is 30 days, the same convention
// the oil change reminder uses.
const (
	MinutesPerDay   = 24 * 60
	MinutesPerWeek  = 7 * MinutesPerDay
	MinutesPerMonth = 30 * MinutesPerDay
)

// OilChangeMonthDays is the length of one "month" when scheduling oil changes.
const OilChangeMonthDays = 30

// IstighfarIntervals maps the menu choice to a repeat interval in minutes.
var IstighfarIntervals = map[string]int{"1": 30, "2": 60, "3": 120}

// RepeatChoices maps the repeat menu choice to an interval in minutes; 0 means once.
var RepeatChoices = map[string]int{
	"1": 0,
	"2": MinutesPerDay,
	"3": MinutesPerWeek,
	"4": MinutesPerMonth,
}

// MinutesToDuration converts a stored interval to a time.Duration.
func MinutesToDuration(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
