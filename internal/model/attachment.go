package model

import "time"

// PendingAttachment is attachment metadata waiting for an issue key.
type PendingAttachment struct {
	AttachmentID string
	Filename     string
	MimeType     string
	ContentURL   string
	SelfURL      string
	IssueKey     string
	ReceivedAt   time.Time
}

// ResolvedAttachment is an attachment whose owning issue is known and which
// is ready to be downloaded. CandidateURLs are ordered most specific first.
type ResolvedAttachment struct {
	AttachmentID  string
	Filename      string
	MimeType      string
	ContentURL    string
	CandidateURLs []string
	IssueKey      string
}
