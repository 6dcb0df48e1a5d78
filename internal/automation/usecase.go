package automation

import (
	"context"
	"fmt"

	"jira-telegram-bridge/internal/correlation"
	"jira-telegram-bridge/internal/delivery"
	"jira-telegram-bridge/internal/metrics"
	pkgLog "jira-telegram-bridge/pkg/log"
)

type usecase struct {
	correlator correlation.UseCase
	deliverer  delivery.UseCase
	l          pkgLog.Logger
}

// ProcessWebhook runs one event through correlation and, when the episode
// has something to send, delivery. Per-item delivery failures are reported
// in the output, not as an error.
func (uc *usecase) ProcessWebhook(ctx context.Context, input ProcessWebhookInput) (ProcessWebhookOutput, error) {
	event := input.Event
	if event.Attachment == nil && event.Comment == nil {
		return ProcessWebhookOutput{}, fmt.Errorf("automation: %s event without payload", event.Kind)
	}

	ep := uc.correlator.Handle(ctx, event)
	out := ProcessWebhookOutput{
		EpisodeID:  ep.ID,
		IssueKey:   ep.IssueKey,
		Suppressed: ep.Suppressed,
		Unresolved: ep.Unresolved,
	}

	switch {
	case ep.Suppressed:
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Kind), "suppressed").Inc()
		out.Message = "echo suppressed"
		return out, nil
	case !ep.HasWork():
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Kind), "no_work").Inc()
		out.Message = "nothing to deliver"
		if ep.IssueKey == "" {
			out.Message = "attachment cached until its issue is known"
		}
		return out, nil
	}

	res := uc.deliverer.Deliver(ctx, delivery.DeliverInput{
		IssueKey:    ep.IssueKey,
		Author:      ep.Author,
		Text:        ep.Text,
		Attachments: ep.Attachments,
	})
	out.Delivered = res.SuccessCount
	out.Failed = res.ErrorCount

	outcome := "delivered"
	if res.ErrorCount > 0 {
		outcome = "partial"
		if res.SuccessCount == 0 {
			outcome = "failed"
		}
	}
	metrics.WebhookEventsTotal.WithLabelValues(string(event.Kind), outcome).Inc()

	out.Message = fmt.Sprintf("delivered %d item(s), %d failed", res.SuccessCount, res.ErrorCount)
	if len(ep.Unresolved) > 0 {
		uc.l.Warnf(ctx, "automation: %s: %d reference(s) unresolved: %v", ep.IssueKey, len(ep.Unresolved), ep.Unresolved)
	}
	return out, nil
}
