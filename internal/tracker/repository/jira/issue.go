package jira

import (
	"context"
	"fmt"

	"jira-telegram-bridge/internal/model"
	"jira-telegram-bridge/internal/tracker/repository"
	pkgJira "jira-telegram-bridge/pkg/jira"
	pkgLog "jira-telegram-bridge/pkg/log"
)

type implRepository struct {
	client *pkgJira.Client
	l      pkgLog.Logger
}

// New creates a tracker repository backed by the Jira REST API.
func New(client *pkgJira.Client, l pkgLog.Logger) repository.TrackerRepository {
	return &implRepository{
		client: client,
		l:      l,
	}
}

func (r *implRepository) IssueAttachments(ctx context.Context, issueKey string) ([]model.IssueAttachment, error) {
	issue, err := r.client.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, fmt.Errorf("jira repository: get issue %s: %w", issueKey, err)
	}

	out := make([]model.IssueAttachment, 0, len(issue.Fields.Attachment))
	for _, a := range issue.Fields.Attachment {
		out = append(out, toIssueAttachment(a))
	}
	r.l.Debugf(ctx, "jira repository: issue %s has %d attachment(s)", issueKey, len(out))
	return out, nil
}

func (r *implRepository) AddComment(ctx context.Context, issueKey, text string) (string, error) {
	c, err := r.client.AddComment(ctx, issueKey, text)
	if err != nil {
		r.l.Errorf(ctx, "jira repository: failed to add comment on %s: %v", issueKey, err)
		return "", err
	}
	return c.ID, nil
}

func (r *implRepository) AddAttachment(ctx context.Context, issueKey, filename string, data []byte) ([]model.IssueAttachment, error) {
	atts, err := r.client.AddAttachment(ctx, issueKey, filename, data)
	if err != nil {
		r.l.Errorf(ctx, "jira repository: failed to attach %s on %s: %v", filename, issueKey, err)
		return nil, err
	}

	out := make([]model.IssueAttachment, 0, len(atts))
	for _, a := range atts {
		out = append(out, toIssueAttachment(a))
	}
	return out, nil
}

func toIssueAttachment(a pkgJira.Attachment) model.IssueAttachment {
	return model.IssueAttachment{
		ID:         a.ID,
		Filename:   a.Filename,
		MimeType:   a.MimeType,
		ContentURL: a.Content,
		Created:    a.CreatedAt(),
	}
}
