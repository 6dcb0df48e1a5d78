package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"

	"jira-telegram-bridge/internal/chat"
	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/metrics"
	"jira-telegram-bridge/internal/model"
	pkgLog "jira-telegram-bridge/pkg/log"
)

const octetStream = "application/octet-stream"

// Coordinator sends the text and attachments of an episode, one item at a
// time, and never aborts the batch on a per-item failure.
type Coordinator struct {
	downloader Downloader
	sink       chat.Sink
	resolver   directory.Resolver
	limiter    *rate.Limiter
	cfg        Config
	l          pkgLog.Logger
}

func New(l pkgLog.Logger, downloader Downloader, sink chat.Sink, resolver directory.Resolver, cfg Config) *Coordinator {
	if cfg.SendInterval <= 0 {
		cfg.SendInterval = DefaultSendInterval
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	return &Coordinator{
		downloader: downloader,
		sink:       sink,
		resolver:   resolver,
		limiter:    rate.NewLimiter(rate.Every(cfg.SendInterval), 1),
		cfg:        cfg,
		l:          l,
	}
}

// Deliver sends in to the chat target of its issue.
func (c *Coordinator) Deliver(ctx context.Context, in DeliverInput) Result {
	var res Result
	items := len(in.Attachments)
	if in.Text != "" {
		items++
	}
	if items == 0 {
		return res
	}

	target, err := c.resolver.ResolveTarget(ctx, in.IssueKey)
	if err != nil {
		c.l.Errorf(ctx, "delivery: no target for %s, dropping %d item(s): %v", in.IssueKey, items, err)
		metrics.DeliveriesTotal.WithLabelValues("any", "no_target").Add(float64(items))
		res.ErrorCount = items
		return res
	}
	res.Target = target

	if in.Text != "" {
		if err := c.send(ctx, func(sctx context.Context) error {
			return c.sink.SendText(sctx, target, formatText(in))
		}); err != nil {
			c.l.Errorf(ctx, "delivery: text for %s failed: %v", in.IssueKey, err)
			metrics.DeliveriesTotal.WithLabelValues("text", "error").Inc()
			res.ErrorCount++
		} else {
			metrics.DeliveriesTotal.WithLabelValues("text", "success").Inc()
			res.SuccessCount++
		}
	}

	for i, att := range in.Attachments {
		if err := c.deliverAttachment(ctx, target, att); err != nil {
			c.l.Errorf(ctx, "delivery: attachment %d/%d (%s) for %s failed: %v", i+1, len(in.Attachments), att.Filename, in.IssueKey, err)
			res.ErrorCount++
			continue
		}
		res.SuccessCount++
	}

	c.l.Infof(ctx, "delivery: %s -> %s: %d sent, %d failed", in.IssueKey, target, res.SuccessCount, res.ErrorCount)
	return res
}

func (c *Coordinator) deliverAttachment(ctx context.Context, target string, att model.ResolvedAttachment) error {
	out := c.downloader.Download(ctx, att.CandidateURLs)
	if !out.OK() {
		metrics.DeliveriesTotal.WithLabelValues("file", "download_failed").Inc()
		return fmt.Errorf("download: %s", out.Reason)
	}

	file := chat.File{
		Name:     att.Filename,
		Data:     out.Data,
		MimeType: detectMIME(att.MimeType, out.ContentType, out.Data),
		IssueKey: att.IssueKey,
	}
	if file.Name == "" {
		file.Name = "attachment-" + att.AttachmentID + mimetype.Detect(out.Data).Extension()
	}

	if err := c.send(ctx, func(sctx context.Context) error {
		return c.sink.SendFile(sctx, target, file)
	}); err != nil {
		metrics.DeliveriesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("send: %w", err)
	}
	metrics.DeliveriesTotal.WithLabelValues("file", "success").Inc()
	return nil
}

// send waits for the pacing limiter, then runs fn under the send timeout.
func (c *Coordinator) send(ctx context.Context, fn func(context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	sctx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
	defer cancel()
	return fn(sctx)
}

// detectMIME prefers the tracker's declared type, then the download's
// Content-Type, then sniffs the bytes.
func detectMIME(declared, served string, data []byte) string {
	for _, v := range []string{declared, served} {
		v = strings.TrimSpace(strings.SplitN(v, ";", 2)[0])
		if v != "" && v != octetStream {
			return strings.ToLower(v)
		}
	}
	return strings.SplitN(mimetype.Detect(data).String(), ";", 2)[0]
}

func formatText(in DeliverInput) string {
	header := "[" + in.IssueKey + "]"
	if in.Author != "" {
		header += " " + in.Author + ":"
	}
	return header + "\n" + in.Text
}

var _ UseCase = (*Coordinator)(nil)
