package entity

import (
	"time"

	"gorm.io/datatypes"

	"qurainbot/internal/domain/constant"
)

// Dialog is the typed payload of a user's reminder conversation. Fields other
// than State and History are filled in step by step as the user answers.
type Dialog struct {
	State   constant.DialogState   `json:"state"`
	History []constant.DialogState `json:"history,omitempty"`
	Kind    constant.ReminderKind  `json:"kind,omitempty"`
	Date    string                 `json:"date,omitempty"` // DD-MM-YYYY as entered, normalized
	Time    string                 `json:"time,omitempty"` // HH:MM
	Message string                 `json:"message,omitempty"`
	EditID  uint                   `json:"edit_id,omitempty"`
}

// Advance moves to next, remembering the current state for "back".
func (d *Dialog) Advance(next constant.DialogState) {
	d.History = append(d.History, d.State)
	d.State = next
}

// Back returns to the previous state. It reports false when there is nothing
// to go back to.
func (d *Dialog) Back() bool {
	n := len(d.History)
	if n == 0 {
		return false
	}
	d.State = d.History[n-1]
	d.History = d.History[:n-1]
	return true
}

// Session is a user's position in the reminder dialog. A missing row means the
// user is on the main menu.
type Session struct {
	UserID    string                     `gorm:"column:user_id;primaryKey"`
	Dialog    datatypes.JSONType[Dialog] `gorm:"column:dialog"`
	ExpiresAt time.Time                  `gorm:"column:expires_at;index;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the Session entity.
func (Session) TableName() string {
	return "sessions"
}
