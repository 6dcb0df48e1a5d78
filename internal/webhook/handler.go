package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/internal/metrics"
	pkgResponse "jira-telegram-bridge/pkg/response"
)

// HandleJiraWebhook godoc
// @Summary Receive a Jira webhook
// @Description Accepts attachment_created and comment_created events. Other events are acknowledged and ignored.
// @Tags webhook
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 403 {object} response.Resp
// @Failure 429 {object} response.Resp
// @Router /webhook/jira [post]
func (h *Handler) HandleJiraWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	ip := c.ClientIP()
	if err := h.admission.Check(ip); err != nil {
		h.l.Warnf(ctx, "webhook: rejected %s: %v", ip, err)
		switch {
		case errors.Is(err, ErrNotAllowed):
			metrics.AdmissionRejectedTotal.WithLabelValues("not_allowed").Inc()
			pkgResponse.Forbidden(c)
		case errors.Is(err, ErrBlacklisted):
			metrics.AdmissionRejectedTotal.WithLabelValues("blacklisted").Inc()
			pkgResponse.TooManyRequests(c)
		default:
			metrics.AdmissionRejectedTotal.WithLabelValues("rate_limited").Inc()
			pkgResponse.TooManyRequests(c)
		}
		return
	}

	// Read body
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		h.l.Warnf(ctx, "webhook: read body from %s: %v", ip, err)
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "ignored").Inc()
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "unreadable body"})
		return
	}

	events, err := h.jiraParser.Parse(body)
	if err != nil {
		reason := "malformed payload"
		if errors.Is(err, ErrUnsupportedEvent) {
			reason = "unsupported event type"
			h.l.Infof(ctx, "webhook: %v", err)
		} else {
			h.l.Warnf(ctx, "webhook: %v", err)
		}
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "ignored").Inc()
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": reason})
		return
	}

	// Process in background
	h.dispatch(events)

	// Acknowledge immediately
	pkgResponse.OK(c, gin.H{"status": "accepted", "events": len(events)})
}
