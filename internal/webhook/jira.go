package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jira-telegram-bridge/internal/model"
	pkgJira "jira-telegram-bridge/pkg/jira"
)

const (
	eventAttachmentCreated = "attachment_created"
	eventCommentCreated    = "comment_created"
)

// JiraWebhookParser turns Jira webhook bodies into typed events
type JiraWebhookParser struct{}

func NewJiraParser() *JiraWebhookParser {
	return &JiraWebhookParser{}
}

// flexString accepts a JSON string or number. Jira is not consistent about
// the type of ids across webhook payloads.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type jiraAttachment struct {
	ID       flexString `json:"id"`
	Filename string     `json:"filename"`
	MimeType string     `json:"mimeType"`
	Content  string     `json:"content"`
	Self     string     `json:"self"`
	Created  string     `json:"created"`
}

type jiraIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Attachment []jiraAttachment `json:"attachment"`
	} `json:"fields"`
}

type jiraUser struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

type jiraComment struct {
	ID     flexString      `json:"id"`
	Body   json.RawMessage `json:"body"`
	Author jiraUser        `json:"author"`
}

type jiraPayload struct {
	WebhookEvent string          `json:"webhookEvent"`
	Attachment   json.RawMessage `json:"attachment"`
	Attachments  json.RawMessage `json:"attachments"`
	Issue        *jiraIssue      `json:"issue"`
	Comment      *jiraComment    `json:"comment"`
}

// Parse decodes a webhook body. An attachment_created payload may carry
// several attachments and yields one event per attachment.
func (p *JiraWebhookParser) Parse(payload []byte) ([]model.WebhookEvent, error) {
	var body jiraPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	now := time.Now()
	switch body.WebhookEvent {
	case eventAttachmentCreated:
		return p.parseAttachmentCreated(body, now)
	case eventCommentCreated:
		return p.parseCommentCreated(body, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, body.WebhookEvent)
	}
}

func (p *JiraWebhookParser) parseAttachmentCreated(body jiraPayload, now time.Time) ([]model.WebhookEvent, error) {
	atts, err := decodeAttachments(body.Attachment)
	if err != nil {
		return nil, err
	}
	more, err := decodeAttachments(body.Attachments)
	if err != nil {
		return nil, err
	}
	atts = append(atts, more...)
	if len(atts) == 0 {
		return nil, fmt.Errorf("%w: attachment_created without attachment", ErrMalformedPayload)
	}

	issueKey := ""
	if body.Issue != nil {
		issueKey = strings.TrimSpace(body.Issue.Key)
	}

	events := make([]model.WebhookEvent, 0, len(atts))
	for _, a := range atts {
		if a.ID == "" && a.Filename == "" {
			continue
		}
		events = append(events, model.WebhookEvent{
			Kind: model.EventAttachmentCreated,
			Attachment: &model.AttachmentCreated{
				AttachmentID: string(a.ID),
				Filename:     a.Filename,
				MimeType:     a.MimeType,
				ContentURL:   a.Content,
				SelfURL:      a.Self,
				IssueKey:     issueKey,
			},
			ReceivedAt: now,
		})
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: attachments carry neither id nor filename", ErrMalformedPayload)
	}
	return events, nil
}

func (p *JiraWebhookParser) parseCommentCreated(body jiraPayload, now time.Time) ([]model.WebhookEvent, error) {
	if body.Comment == nil {
		return nil, fmt.Errorf("%w: comment_created without comment", ErrMalformedPayload)
	}
	if body.Issue == nil || strings.TrimSpace(body.Issue.Key) == "" {
		return nil, fmt.Errorf("%w: comment_created without issue key", ErrMalformedPayload)
	}

	text, err := commentText(body.Comment.Body)
	if err != nil {
		return nil, err
	}

	issueAtts := make([]model.IssueAttachment, 0, len(body.Issue.Fields.Attachment))
	for _, a := range body.Issue.Fields.Attachment {
		issueAtts = append(issueAtts, model.IssueAttachment{
			ID:         string(a.ID),
			Filename:   a.Filename,
			MimeType:   a.MimeType,
			ContentURL: a.Content,
			Created:    pkgJira.ParseTime(a.Created),
		})
	}

	author := body.Comment.Author
	name := author.DisplayName
	if name == "" {
		name = author.Name
	}

	return []model.WebhookEvent{{
		Kind: model.EventCommentCreated,
		Comment: &model.CommentCreated{
			IssueKey:         strings.TrimSpace(body.Issue.Key),
			CommentID:        string(body.Comment.ID),
			Body:             text,
			Author:           name,
			AuthorAccountID:  author.AccountID,
			IssueAttachments: issueAtts,
		},
		ReceivedAt: now,
	}}, nil
}

// decodeAttachments accepts a single attachment object or an array of them.
func decodeAttachments(raw json.RawMessage) ([]jiraAttachment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []jiraAttachment
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: attachments: %v", ErrMalformedPayload, err)
		}
		return list, nil
	}
	var one jiraAttachment
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("%w: attachment: %v", ErrMalformedPayload, err)
	}
	return []jiraAttachment{one}, nil
}

// commentText returns the body as wiki text. Cloud sites on API v3 send an
// Atlassian document instead of a string.
func commentText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: comment body: %v", ErrMalformedPayload, err)
		}
		return s, nil
	}
	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: comment body: %v", ErrMalformedPayload, err)
	}
	return flattenADF(doc), nil
}
