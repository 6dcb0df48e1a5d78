package delivery

import (
	"time"

	"jira-telegram-bridge/internal/model"
)

const (
	DefaultSendInterval = time.Second
	DefaultSendTimeout  = 30 * time.Second
)

// Config controls delivery pacing.
type Config struct {
	SendInterval time.Duration // minimum gap between two chat sends
	SendTimeout  time.Duration // bound for a single chat send
}

// DeliverInput is one episode ready for chat.
type DeliverInput struct {
	IssueKey    string
	Author      string
	Text        string
	Attachments []model.ResolvedAttachment
}

// Result counts per-item outcomes. Text and each attachment are one item.
type Result struct {
	Target       string
	SuccessCount int
	ErrorCount   int
}
