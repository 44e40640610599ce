package service

import "context"

// DirectoryService answers the stateless service-directory menus.
type DirectoryService interface {
	// MainMenu renders the list of directory sections.
	MainMenu() string
	// Reply answers a normalized message that is not part of a reminder
	// dialog. Unknown input gets a short help text.
	Reply(ctx context.Context, text string) string
}
