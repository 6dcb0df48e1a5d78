package automation

import (
	"jira-telegram-bridge/internal/model"
)

// ProcessWebhookInput is input for webhook processing
type ProcessWebhookInput struct {
	Event model.WebhookEvent
}

// ProcessWebhookOutput is result of webhook processing
type ProcessWebhookOutput struct {
	EpisodeID  string
	IssueKey   string
	Suppressed bool     // Echo of our own write
	Delivered  int      // Items sent to chat
	Failed     int      // Items that could not be sent
	Unresolved []string // References no attachment could be found for
	Message    string   // Summary message
}
