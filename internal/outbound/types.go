package outbound

import "jira-telegram-bridge/internal/model"

// --- UseCase Inputs ---

type AddCommentInput struct {
	IssueKey string
	Text     string
}

type AttachFileInput struct {
	IssueKey string
	Filename string
	Data     []byte
}

// --- UseCase Outputs ---

type AddCommentOutput struct {
	CommentID string
}

type AttachFileOutput struct {
	Attachments []model.IssueAttachment
}
