package attachment_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"jira-telegram-bridge/internal/attachment"
	"jira-telegram-bridge/pkg/log"
)

// fakeResponse describes what the fake fetcher returns for one URL.
type fakeResponse struct {
	status      int
	contentType string
	body        []byte
	err         error
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse // consumed in order, last one repeats
	calls     []string
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)

	queue, ok := f.responses[url]
	if !ok || len(queue) == 0 {
		return nil, errors.New("connection refused")
	}
	r := queue[0]
	if len(queue) > 1 {
		f.responses[url] = queue[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	h := http.Header{}
	if r.contentType != "" {
		h.Set("Content-Type", r.contentType)
	}
	return &http.Response{
		StatusCode: r.status,
		Header:     h,
		Body:       io.NopCloser(bytes.NewReader(r.body)),
	}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

var binaryBody = bytes.Repeat([]byte{0x89, 'P', 'N', 'G', 0x00}, 60)

var htmlLogin = fakeResponse{
	status:      http.StatusOK,
	contentType: "text/html; charset=UTF-8",
	body:        []byte("<html><body>Log in</body></html>"),
}

func newDownloader(t *testing.T, f attachment.Fetcher, maxAttempts int, s *recordingSleeper) *attachment.Downloader {
	t.Helper()
	d, err := attachment.NewDownloader(f, attachment.Config{
		Policy: attachment.RetryPolicy{MaxAttemptsPerURL: maxAttempts, Delay: 2 * time.Second},
		Sleep:  s.sleep,
	}, log.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestNewDownloaderNilFetcher(t *testing.T) {
	_, err := attachment.NewDownloader(nil, attachment.Config{}, log.NewNop())
	if !errors.Is(err, attachment.ErrNilFetcher) {
		t.Errorf("expected ErrNilFetcher, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("Falls back to third candidate and stops", func(t *testing.T) {
		f := &fakeFetcher{responses: map[string][]fakeResponse{
			"u1": {htmlLogin},
			"u2": {htmlLogin},
			"u3": {{status: http.StatusOK, contentType: "image/png", body: binaryBody}},
			"u4": {{status: http.StatusOK, contentType: "image/png", body: []byte("never")}},
		}}
		s := &recordingSleeper{}
		d := newDownloader(t, f, 1, s)

		out := d.Download(ctx, []string{"u1", "u2", "u3", "u4"})
		if !out.OK() {
			t.Fatalf("expected success, got %+v", out)
		}
		if out.URL != "u3" || !bytes.Equal(out.Data, binaryBody) {
			t.Errorf("expected content from u3, got %s", out.URL)
		}
		for _, c := range f.calls {
			if c == "u4" {
				t.Errorf("fourth candidate must not be attempted")
			}
		}
		if len(s.delays) != 0 {
			t.Errorf("expected no sleeps with one attempt per url, got %v", s.delays)
		}
	})

	t.Run("Retries within a URL with fixed delay", func(t *testing.T) {
		f := &fakeFetcher{responses: map[string][]fakeResponse{
			"u1": {
				{status: http.StatusBadGateway},
				{err: context.DeadlineExceeded},
				{status: http.StatusOK, contentType: "application/pdf", body: binaryBody},
			},
		}}
		s := &recordingSleeper{}
		d := newDownloader(t, f, 3, s)

		out := d.Download(ctx, []string{"u1"})
		if !out.OK() {
			t.Fatalf("expected success, got %+v", out)
		}
		if out.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", out.Attempts)
		}
		if len(s.delays) != 2 || s.delays[0] != 2*time.Second || s.delays[1] != 2*time.Second {
			t.Errorf("unexpected delays: %v", s.delays)
		}
	})

	t.Run("Tiny error body is a soft failure", func(t *testing.T) {
		f := &fakeFetcher{responses: map[string][]fakeResponse{
			"u1": {{status: http.StatusOK, contentType: "application/json", body: []byte(`{"error":"Unauthorized"}`)}},
			"u2": {{status: http.StatusOK, contentType: "text/plain", body: []byte("ok")}},
		}}
		d := newDownloader(t, f, 1, &recordingSleeper{})

		out := d.Download(ctx, []string{"u1", "u2"})
		if !out.OK() || out.URL != "u2" {
			t.Fatalf("expected success from u2, got %+v", out)
		}
		if string(out.Data) != "ok" {
			t.Errorf("small non-error bodies are valid content, got %q", out.Data)
		}
	})

	t.Run("Exhausted candidates is a hard failure", func(t *testing.T) {
		f := &fakeFetcher{responses: map[string][]fakeResponse{
			"u1": {{status: http.StatusNotFound}},
			"u2": {htmlLogin},
		}}
		s := &recordingSleeper{}
		d := newDownloader(t, f, 2, s)

		out := d.Download(ctx, []string{"u1", "u2"})
		if out.Kind != attachment.OutcomeHardFailure {
			t.Fatalf("expected hard failure, got %+v", out)
		}
		if f.callCount() != 4 {
			t.Errorf("expected 4 attempts, got %d", f.callCount())
		}
		if !strings.Contains(out.Reason, "html_page") {
			t.Errorf("expected last reason in summary, got %q", out.Reason)
		}
	})

	t.Run("No candidates is a hard failure", func(t *testing.T) {
		d := newDownloader(t, &fakeFetcher{}, 3, &recordingSleeper{})
		out := d.Download(ctx, nil)
		if out.Kind != attachment.OutcomeHardFailure {
			t.Errorf("expected hard failure, got %+v", out)
		}
	})

	t.Run("Cancelled context stops retries", func(t *testing.T) {
		f := &fakeFetcher{responses: map[string][]fakeResponse{
			"u1": {{status: http.StatusServiceUnavailable}},
		}}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		d := newDownloader(t, f, 3, &recordingSleeper{})

		out := d.Download(cctx, []string{"u1"})
		if out.Kind != attachment.OutcomeHardFailure {
			t.Errorf("expected hard failure, got %+v", out)
		}
		if f.callCount() != 0 {
			t.Errorf("expected no fetches after cancel, got %d", f.callCount())
		}
	})
}

func TestRetryPolicyDelayFor(t *testing.T) {
	p := attachment.RetryPolicy{
		Backoff: []time.Duration{time.Second, 4 * time.Second},
	}
	if got := p.DelayFor(1); got != time.Second {
		t.Errorf("attempt 1: expected 1s, got %v", got)
	}
	if got := p.DelayFor(5); got != 4*time.Second {
		t.Errorf("attempt 5: expected last entry 4s, got %v", got)
	}

	p.JitterPct = 0.25
	for i := 0; i < 20; i++ {
		got := p.DelayFor(2)
		if got < 3*time.Second || got > 5*time.Second {
			t.Fatalf("jittered delay out of range: %v", got)
		}
	}

	fixed := attachment.RetryPolicy{Delay: 500 * time.Millisecond}
	if got := fixed.DelayFor(3); got != 500*time.Millisecond {
		t.Errorf("expected fixed delay, got %v", got)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := attachment.SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled, got %v", err)
	}
}
