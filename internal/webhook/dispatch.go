package webhook

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"jira-telegram-bridge/internal/automation"
	"jira-telegram-bridge/internal/model"
	pkgLog "jira-telegram-bridge/pkg/log"
)

// keyedQueue runs jobs one at a time per key, in the order they were
// enqueued. A key's worker goroutine exits once its queue drains.
type keyedQueue struct {
	mu     sync.Mutex
	queues map[string][]func()
}

func newKeyedQueue() *keyedQueue {
	return &keyedQueue{queues: make(map[string][]func())}
}

// Enqueue appends job to the queue of key and starts a worker for the key
// when none is running.
func (q *keyedQueue) Enqueue(key string, job func()) {
	q.mu.Lock()
	jobs, running := q.queues[key]
	q.queues[key] = append(jobs, job)
	q.mu.Unlock()

	if !running {
		go q.drain(key)
	}
}

func (q *keyedQueue) drain(key string) {
	for {
		q.mu.Lock()
		jobs := q.queues[key]
		if len(jobs) == 0 {
			delete(q.queues, key)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		jobs[0] = nil
		q.queues[key] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

func (q *keyedQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues)
}

// dispatchKey serialises events of one issue. Attachment events that arrive
// without an issue key are serialised per attachment id.
func dispatchKey(ev model.WebhookEvent) string {
	if key := ev.IssueKey(); key != "" {
		return "issue:" + key
	}
	if ev.Attachment != nil {
		if ev.Attachment.AttachmentID != "" {
			return "attachment:" + ev.Attachment.AttachmentID
		}
		return "file:" + ev.Attachment.Filename
	}
	return "unkeyed"
}

// dispatch queues events behind earlier events of the same key. It does not
// block: the queues are drained in the background in arrival order.
func (h *Handler) dispatch(events []model.WebhookEvent) {
	for _, ev := range events {
		h.queue.Enqueue(dispatchKey(ev), func() { h.process(ev) })
	}
}

func (h *Handler) process(ev model.WebhookEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.DispatchTimeout)
	defer cancel()
	ctx = pkgLog.WithEpisode(ctx, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			h.l.Errorf(ctx, "webhook: panic while processing %s: %v", ev.Kind, r)
		}
	}()

	output, err := h.automationUC.ProcessWebhook(ctx, automation.ProcessWebhookInput{Event: ev})
	if err != nil {
		h.l.Errorf(ctx, "webhook: processing %s failed: %v", ev.Kind, err)
		return
	}
	h.l.Infof(ctx, "webhook: %s %s processed: %s", ev.Kind, output.IssueKey, output.Message)
}
