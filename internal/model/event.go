package model

import "time"

// EventKind tags the WebhookEvent variant.
type EventKind string

const (
	EventAttachmentCreated EventKind = "attachment_created"
	EventCommentCreated    EventKind = "comment_created"
)

// WebhookEvent is a parsed tracker webhook. Exactly one of Attachment or
// Comment is set, matching Kind.
type WebhookEvent struct {
	Kind       EventKind
	Attachment *AttachmentCreated
	Comment    *CommentCreated
	ReceivedAt time.Time
}

// IssueKey returns the issue key carried by the event, or "" when the
// tracker omitted it.
func (e WebhookEvent) IssueKey() string {
	switch e.Kind {
	case EventAttachmentCreated:
		if e.Attachment != nil {
			return e.Attachment.IssueKey
		}
	case EventCommentCreated:
		if e.Comment != nil {
			return e.Comment.IssueKey
		}
	}
	return ""
}

// AttachmentCreated is emitted when a file is uploaded to an issue.
// IssueKey is frequently empty: the tracker does not always include the issue.
type AttachmentCreated struct {
	AttachmentID string
	Filename     string
	MimeType     string
	ContentURL   string
	SelfURL      string
	IssueKey     string
}

// CommentCreated is emitted when a comment is added to an issue.
type CommentCreated struct {
	IssueKey         string
	CommentID        string
	Body             string
	Author           string
	AuthorAccountID  string
	IssueAttachments []IssueAttachment
}

// IssueAttachment is an attachment as listed on the issue itself, either in
// a webhook's issue.fields.attachment or from the issue API.
type IssueAttachment struct {
	ID         string
	Filename   string
	MimeType   string
	ContentURL string
	Created    time.Time
}
