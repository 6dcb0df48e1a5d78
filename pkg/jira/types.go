package jira

import (
	"errors"
	"time"
)

var (
	ErrMissingCredentials = errors.New("jira: email and api token are required")
	ErrMissingDomain      = errors.New("jira: domain is required")
	ErrEmptyIssueKey      = errors.New("jira: issue key is required")
)

// CreatedLayout is the timestamp format Jira uses in REST and webhook bodies.
const CreatedLayout = "2006-01-02T15:04:05.000-0700"

// Attachment is the Jira REST attachment object.
type Attachment struct {
	ID       string `json:"id"`
	Self     string `json:"self"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
	Created  string `json:"created"`
	Size     int64  `json:"size"`
}

// CreatedAt parses Created. It returns the zero time when the field is
// missing or malformed.
func (a Attachment) CreatedAt() time.Time {
	return ParseTime(a.Created)
}

// ParseTime parses a Jira timestamp, accepting RFC 3339 as well.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{CreatedLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Issue is the subset of the Jira issue resource this service reads.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Attachment []Attachment `json:"attachment"`
	} `json:"fields"`
}

// AddCommentRequest is the body for POST /rest/api/2/issue/{key}/comment.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// Comment is the Jira comment object returned on creation.
type Comment struct {
	ID   string `json:"id"`
	Self string `json:"self"`
	Body string `json:"body"`
}
