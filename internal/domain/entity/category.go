package entity

import "time"

// ServiceCategory is read-only directory data, seeded at startup. The two
// time-of-day windows are "HH:MM" strings in the bot's local time.
type ServiceCategory struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	Code             string `gorm:"column:code;uniqueIndex;not null"`
	Name             string `gorm:"column:name;not null"`
	Description      string `gorm:"column:description;type:text"`
	MorningStartTime string `gorm:"column:morning_start_time"`
	MorningEndTime   string `gorm:"column:morning_end_time"`
	EveningStartTime string `gorm:"column:evening_start_time"`
	EveningEndTime   string `gorm:"column:evening_end_time"`
}

// TableName specifies the table name for the ServiceCategory entity.
func (ServiceCategory) TableName() string {
	return "categories"
}

// OpenAt reports whether t (already in local time) falls inside the morning
// or evening window. Windows are inclusive at both ends.
func (c *ServiceCategory) OpenAt(t time.Time) bool {
	clock := t.Format("15:04")
	return within(clock, c.MorningStartTime, c.MorningEndTime) ||
		within(clock, c.EveningStartTime, c.EveningEndTime)
}

// HH:MM strings compare correctly as text.
func within(clock, start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	return start <= clock && clock <= end
}
