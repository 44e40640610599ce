package service

import "context"

// ConversationService turns one inbound WhatsApp text into the reply text,
// driving the reminder dialog and falling back to the service directory.
type ConversationService interface {
	// HandleMessage never fails: storage problems are logged and answered
	// with a generic apology.
	HandleMessage(ctx context.Context, userID, text string) string
}
