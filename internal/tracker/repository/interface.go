package repository

import (
	"context"

	"jira-telegram-bridge/internal/model"
)

// TrackerRepository is the interface for issue tracker operations.
type TrackerRepository interface {
	// IssueAttachments lists the attachments currently on an issue.
	IssueAttachments(ctx context.Context, issueKey string) ([]model.IssueAttachment, error)
	// AddComment posts a plain-text comment and returns its id.
	AddComment(ctx context.Context, issueKey, text string) (string, error)
	// AddAttachment uploads a file and returns the created attachments.
	AddAttachment(ctx context.Context, issueKey, filename string, data []byte) ([]model.IssueAttachment, error)
}
