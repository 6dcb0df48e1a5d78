package automation_test

import (
	"context"
	"testing"

	"jira-telegram-bridge/internal/automation"
	"jira-telegram-bridge/internal/correlation"
	"jira-telegram-bridge/internal/delivery"
	"jira-telegram-bridge/internal/model"
	"jira-telegram-bridge/pkg/log"
)

type fakeCorrelator struct {
	episode correlation.Episode
}

func (f *fakeCorrelator) Handle(ctx context.Context, ev model.WebhookEvent) correlation.Episode {
	return f.episode
}

type fakeDeliverer struct {
	calls  []delivery.DeliverInput
	result delivery.Result
}

func (f *fakeDeliverer) Deliver(ctx context.Context, in delivery.DeliverInput) delivery.Result {
	f.calls = append(f.calls, in)
	return f.result
}

func commentEvent() model.WebhookEvent {
	return model.WebhookEvent{
		Kind:    model.EventCommentCreated,
		Comment: &model.CommentCreated{IssueKey: "OPS-1", Body: "hi"},
	}
}

func TestProcessWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers episode with work", func(t *testing.T) {
		corr := &fakeCorrelator{episode: correlation.Episode{
			ID:       "ep-1",
			IssueKey: "OPS-1",
			Author:   "Jane",
			Text:     "hi",
			Attachments: []model.ResolvedAttachment{
				{AttachmentID: "1"}, {AttachmentID: "2"},
			},
		}}
		del := &fakeDeliverer{result: delivery.Result{SuccessCount: 2, ErrorCount: 1}}
		uc := automation.New(corr, del, log.NewNop())

		out, err := uc.ProcessWebhook(ctx, automation.ProcessWebhookInput{Event: commentEvent()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(del.calls) != 1 {
			t.Fatalf("Deliver called %d times, want 1", len(del.calls))
		}
		in := del.calls[0]
		if in.IssueKey != "OPS-1" || in.Text != "hi" || in.Author != "Jane" || len(in.Attachments) != 2 {
			t.Errorf("unexpected deliver input: %+v", in)
		}
		if out.EpisodeID != "ep-1" || out.Delivered != 2 || out.Failed != 1 {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("suppressed episode is not delivered", func(t *testing.T) {
		corr := &fakeCorrelator{episode: correlation.Episode{IssueKey: "OPS-1", Text: "hi", Suppressed: true}}
		del := &fakeDeliverer{}
		uc := automation.New(corr, del, log.NewNop())

		out, err := uc.ProcessWebhook(ctx, automation.ProcessWebhookInput{Event: commentEvent()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Suppressed || len(del.calls) != 0 {
			t.Errorf("out = %+v, calls = %d", out, len(del.calls))
		}
	})

	t.Run("cached attachment is not delivered", func(t *testing.T) {
		corr := &fakeCorrelator{}
		del := &fakeDeliverer{}
		uc := automation.New(corr, del, log.NewNop())

		ev := model.WebhookEvent{
			Kind:       model.EventAttachmentCreated,
			Attachment: &model.AttachmentCreated{AttachmentID: "9", Filename: "a.pdf"},
		}
		if _, err := uc.ProcessWebhook(ctx, automation.ProcessWebhookInput{Event: ev}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(del.calls) != 0 {
			t.Errorf("Deliver called %d times, want 0", len(del.calls))
		}
	})

	t.Run("event without payload", func(t *testing.T) {
		uc := automation.New(&fakeCorrelator{}, &fakeDeliverer{}, log.NewNop())
		_, err := uc.ProcessWebhook(ctx, automation.ProcessWebhookInput{Event: model.WebhookEvent{Kind: model.EventCommentCreated}})
		if err == nil {
			t.Error("expected error for empty event")
		}
	})
}
