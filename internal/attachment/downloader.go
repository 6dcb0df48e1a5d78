package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"jira-telegram-bridge/internal/metrics"
	pkgLog "jira-telegram-bridge/pkg/log"
)

const (
	defaultAttemptTimeout = 30 * time.Second
	defaultMinBytes       = 100
	defaultMaxBytes       = 50 << 20
)

// Downloader fetches attachment bytes from an ordered list of candidate URLs.
type Downloader struct {
	fetcher Fetcher
	cfg     Config
	l       pkgLog.Logger
}

// NewDownloader creates a Downloader. Zero-valued Config fields take defaults.
func NewDownloader(fetcher Fetcher, cfg Config, l pkgLog.Logger) (*Downloader, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = defaultMinBytes
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Sleep == nil {
		cfg.Sleep = SleepContext
	}
	if cfg.Policy.MaxAttemptsPerURL <= 0 {
		cfg.Policy = DefaultRetryPolicy()
	}
	return &Downloader{fetcher: fetcher, cfg: cfg, l: l}, nil
}

// Download tries each URL in order, retrying soft failures per the policy,
// and returns on the first usable body. It never returns an error: every
// expected failure mode ends in a HardFailure outcome.
func (d *Downloader) Download(ctx context.Context, urls []string) Outcome {
	if len(urls) == 0 {
		return Outcome{Kind: OutcomeHardFailure, Reason: reasonNoURLs}
	}

	maxAttempts := d.cfg.Policy.attempts()
	total := 0
	var last Outcome

	for i, u := range urls {
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return Outcome{Kind: OutcomeHardFailure, URL: u, Reason: reasonCanceled, Attempts: total}
			}

			total++
			last = d.attempt(ctx, u)
			last.Attempts = total

			if last.OK() {
				metrics.DownloadAttemptsTotal.WithLabelValues("success").Inc()
				d.l.Debugf(ctx, "attachment: downloaded %d bytes from candidate %d/%d", len(last.Data), i+1, len(urls))
				return last
			}

			metrics.DownloadAttemptsTotal.WithLabelValues(last.Reason).Inc()
			d.l.Debugf(ctx, "attachment: candidate %d/%d attempt %d/%d failed: %s", i+1, len(urls), attempt, maxAttempts, last.Reason)

			if attempt < maxAttempts {
				if err := d.cfg.Sleep(ctx, d.cfg.Policy.DelayFor(attempt)); err != nil {
					return Outcome{Kind: OutcomeHardFailure, URL: u, Reason: reasonCanceled, Attempts: total}
				}
			}
		}
	}

	return Outcome{
		Kind:     OutcomeHardFailure,
		URL:      last.URL,
		Reason:   fmt.Sprintf("all %d candidates exhausted, last: %s", len(urls), last.Reason),
		Attempts: total,
	}
}

// attempt performs one bounded GET and classifies the response.
func (d *Downloader) attempt(ctx context.Context, u string) Outcome {
	actx, cancel := context.WithTimeout(ctx, d.cfg.AttemptTimeout)
	defer cancel()

	resp, err := d.fetcher.Get(actx, u)
	if err != nil {
		return soft(u, classifyError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if resp.StatusCode >= 500 {
			return soft(u, reasonHTTP5xx)
		}
		return soft(u, reasonHTTP4xx)
	}

	contentType := resp.Header.Get("Content-Type")
	if isHTML(contentType) {
		// Jira answers auth problems with a 200 login page.
		return soft(u, reasonHTMLPage)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxBytes+1))
	if err != nil {
		return soft(u, classifyError(err))
	}
	if int64(len(data)) > d.cfg.MaxBytes {
		return soft(u, reasonTooLarge)
	}
	if len(data) == 0 {
		return soft(u, reasonEmptyBody)
	}
	if len(data) < d.cfg.MinBytes && looksLikeErrorText(data) {
		return soft(u, reasonErrorBody)
	}

	return Outcome{Kind: OutcomeSuccess, Data: data, ContentType: contentType, URL: u}
}

func soft(u, reason string) Outcome {
	return Outcome{Kind: OutcomeSoftFailure, URL: u, Reason: reason}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mt == "text/html"
}

func looksLikeErrorText(data []byte) bool {
	lower := bytes.ToLower(data)
	return bytes.Contains(lower, []byte("error")) || bytes.Contains(lower, []byte("unauthorized"))
}

func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return reasonTimeout
	}
	if errors.Is(err, context.Canceled) {
		return reasonCanceled
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return reasonTimeout
	}
	return reasonNetwork
}
