package entity

import (
	"time"

	"qurainbot/internal/domain/constant"
)

// Reminder is a stored future WhatsApp notification.
// IntervalMinutes nil means fire once; a positive value means the reminder is
// moved forward by that many minutes after each delivery and stays active.
type Reminder struct {
	ID              uint                  `gorm:"primaryKey;autoIncrement"`
	UserID          string                `gorm:"column:user_id;index;not null"`
	ReminderType    string                `gorm:"column:reminder_type;not null"`
	Kind            constant.ReminderKind `gorm:"column:kind;type:varchar(32);not null"`
	Message         *string               `gorm:"column:message;type:text"`
	RemindAt        time.Time             `gorm:"column:remind_at;index;not null"`
	IntervalMinutes *int                  `gorm:"column:interval_minutes"`
	Active          bool                  `gorm:"column:active;index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

// IsRecurring reports whether the reminder repeats after firing.
func (r *Reminder) IsRecurring() bool {
	return r.IntervalMinutes != nil && *r.IntervalMinutes > 0
}

// Interval returns the repeat interval, zero for one-shot reminders.
func (r *Reminder) Interval() time.Duration {
	if !r.IsRecurring() {
		return 0
	}
	return constant.MinutesToDuration(*r.IntervalMinutes)
}

// MarkFired applies the post-delivery transition at now. A recurring reminder
// moves to the first point of its interval grid after now, so an overdue one
// fires once rather than once per missed interval. One-shot reminders are
// deactivated.
func (r *Reminder) MarkFired(now time.Time) {
	if !r.IsRecurring() {
		r.Active = false
		return
	}
	step := r.Interval()
	next := r.RemindAt.Add(step)
	if !next.After(now) {
		missed := now.Sub(r.RemindAt)/step + 1
		next = r.RemindAt.Add(missed * step)
	}
	r.RemindAt = next
}

// MessageText returns the optional free-text payload or "".
func (r *Reminder) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// IntervalPtr turns a 0-or-positive interval into the stored representation.
func IntervalPtr(minutes int) *int {
	if minutes <= 0 {
		return nil
	}
	return &minutes
}
