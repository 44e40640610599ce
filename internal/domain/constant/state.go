package constant

// DialogState identifies where in the reminder dialog a user currently is.
// The zero value is the main menu, which is never persisted: a user without a
// session row is on the main menu.
type DialogState string

const (
	// StateMainMenu is the implicit state of users with no session.
	StateMainMenu DialogState = ""
	// StateReminderMenu lists the reminder categories.
	StateReminderMenu DialogState = "reminder_menu"
	// StateAwaitingOilMonths waits for 1/2/3 months for an oil change reminder.
	StateAwaitingOilMonths DialogState = "awaiting_oil_months"
	// StateAwaitingIstighfarInterval waits for the 30/60/120 minute repeat choice.
	StateAwaitingIstighfarInterval DialogState = "awaiting_istighfar_interval"
	// StateAwaitingDate waits for a DD-MM-YYYY date.
	StateAwaitingDate DialogState = "awaiting_date"
	// StateAwaitingTime waits for HH:MM or skip.
	StateAwaitingTime DialogState = "awaiting_time"
	// StateAwaitingMessage waits for optional free text or skip.
	StateAwaitingMessage DialogState = "awaiting_message"
	// StateAwaitingRepeat waits for none/daily/weekly/monthly.
	StateAwaitingRepeat DialogState = "awaiting_repeat"
)

// Valid reports whether s is one of the known states.
func (s DialogState) Valid() bool {
	switch s {
	case StateMainMenu, StateReminderMenu, StateAwaitingOilMonths, StateAwaitingIstighfarInterval,
		StateAwaitingDate, StateAwaitingTime, StateAwaitingMessage, StateAwaitingRepeat:
		return true
	}
	return false
}
