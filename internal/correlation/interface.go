package correlation

import (
	"context"

	"jira-telegram-bridge/internal/model"
)

// UseCase turns webhook events into delivery episodes.
type UseCase interface {
	Handle(ctx context.Context, ev model.WebhookEvent) Episode
}

// IssueLookup lists the attachments currently on an issue.
type IssueLookup interface {
	IssueAttachments(ctx context.Context, issueKey string) ([]model.IssueAttachment, error)
}

// EchoChecker reports whether content was written by this service.
type EchoChecker interface {
	Seen(issueKey, content string) bool
	SeenFile(issueKey, filename string) bool
}
