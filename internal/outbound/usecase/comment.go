package usecase

import (
	"context"
	"fmt"
	"strings"

	"jira-telegram-bridge/internal/outbound"
)

// AddComment records the echo before posting: Jira may fire the webhook
// before the REST call returns.
func (uc *implUseCase) AddComment(ctx context.Context, input outbound.AddCommentInput) (outbound.AddCommentOutput, error) {
	key := strings.TrimSpace(input.IssueKey)
	if key == "" {
		return outbound.AddCommentOutput{}, outbound.ErrEmptyIssueKey
	}
	if strings.TrimSpace(input.Text) == "" {
		return outbound.AddCommentOutput{}, outbound.ErrEmptyText
	}

	uc.echo.Record(key, input.Text)

	id, err := uc.tracker.AddComment(ctx, key, input.Text)
	if err != nil {
		uc.echo.Forget(key, input.Text)
		return outbound.AddCommentOutput{}, fmt.Errorf("%w: %v", outbound.ErrTracker, err)
	}

	uc.l.Infof(ctx, "outbound: comment %s posted on %s", id, key)
	return outbound.AddCommentOutput{CommentID: id}, nil
}
