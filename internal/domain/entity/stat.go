package entity

import "time"

// ReminderStat counts delivered notifications per user.
type ReminderStat struct {
	UserID        string `gorm:"column:user_id;primaryKey"`
	RemindersSent int    `gorm:"column:reminders_sent;not null"`
	UpdatedAt     time.Time
}

// TableName specifies the table name for the ReminderStat entity.
func (ReminderStat) TableName() string {
	return "reminder_stats"
}
