package attachment

import (
	"context"
	"math/rand"
	"net/http"
	"time"
)

// OutcomeKind classifies a download result.
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeSoftFailure OutcomeKind = "soft_failure"
	OutcomeHardFailure OutcomeKind = "hard_failure"
)

// Outcome is the typed result of a download. Soft failures are produced per
// attempt and drive retries; Download itself only returns Success or
// HardFailure.
type Outcome struct {
	Kind        OutcomeKind
	Data        []byte
	ContentType string
	URL         string // URL that produced Data, or the last URL tried
	Reason      string
	Attempts    int
}

// OK reports whether the outcome carries content.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Fetcher performs an authenticated GET. The caller closes the body.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy controls attempts per candidate URL. With an empty Backoff the
// delay between attempts is the fixed Delay; otherwise attempt n waits
// Backoff[n-1] (last entry repeated) scaled by ±JitterPct.
type RetryPolicy struct {
	MaxAttemptsPerURL int
	Delay             time.Duration
	Backoff           []time.Duration
	JitterPct         float64
}

// DefaultRetryPolicy is three attempts per URL, two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttemptsPerURL: 3,
		Delay:             2 * time.Second,
	}
}

// DelayFor returns the wait after the given 1-based failed attempt.
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return p.Delay
	}
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	base := p.Backoff[idx]
	if p.JitterPct <= 0 {
		return base
	}
	j := 1 + (rand.Float64()*2-1)*p.JitterPct
	if j < 0.1 {
		j = 0.1
	}
	return time.Duration(float64(base) * j)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttemptsPerURL < 1 {
		return 1
	}
	return p.MaxAttemptsPerURL
}

// Config configures a Downloader.
type Config struct {
	Policy         RetryPolicy
	AttemptTimeout time.Duration // per GET; default 30s
	MinBytes       int           // bodies below this are inspected for error text; default 100
	MaxBytes       int64         // default 50 MiB
	Sleep          Sleeper       // default SleepContext
}
