package dto

import (
	"time"

	"qurainbot/internal/domain/constant"
	"qurainbot/internal/domain/entity"
)

// ReminderResponse is the DTO for listing a user's reminders.
type ReminderResponse struct {
	ID              uint      `json:"id"`
	Type            string    `json:"reminder_type"`
	Message         string    `json:"message,omitempty"`
	RemindAt        time.Time `json:"remind_at"`
	IntervalMinutes int       `json:"interval_minutes,omitempty"`
	Active          bool      `json:"active"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r *entity.Reminder) ReminderResponse {
	resp := ReminderResponse{
		ID:       r.ID,
		Type:     r.ReminderType,
		Message:  r.MessageText(),
		RemindAt: r.RemindAt,
		Active:   r.Active,
	}
	if r.IsRecurring() {
		resp.IntervalMinutes = *r.IntervalMinutes
	}
	return resp
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
func ToReminderResponseList(reminders []*entity.Reminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}

// CreateReminderRequest is the DTO for storing a new reminder.
// IntervalMinutes 0 means fire once.
type CreateReminderRequest struct {
	UserID          string
	Kind            constant.ReminderKind
	Message         string
	RemindAt        time.Time
	IntervalMinutes int
}

// RescheduleReminderRequest moves an existing reminder to a new fire time.
type RescheduleReminderRequest struct {
	UserID     string
	ReminderID uint
	RemindAt   time.Time
}
