package correlation

import (
	"time"

	"jira-telegram-bridge/internal/model"
)

const (
	DefaultLookupTimeout       = 10 * time.Second
	DefaultDeliveredTTL        = 30 * time.Minute
	DefaultDeliveredMaxEntries = 10000
)

// Config controls how events are correlated.
type Config struct {
	// Domain is the tracker site, used to build candidate download URLs.
	Domain string
	// Window bounds how recent an issue-level attachment must be to be
	// treated as new. Defaults to the pending cache TTL.
	Window time.Duration
	// LookupTimeout bounds the issue API fallback call.
	LookupTimeout time.Duration
	// BridgeAccountID is the tracker account this service writes as.
	// Comments authored by it are never forwarded.
	BridgeAccountID string

	DeliveredTTL        time.Duration
	DeliveredMaxEntries int
	Match               MatchPolicy
}

// Episode is the result of correlating one webhook event.
type Episode struct {
	ID          string
	IssueKey    string
	Text        string
	Author      string
	Attachments []model.ResolvedAttachment
	Suppressed  bool
	// Unresolved names the references that could not be matched to an
	// attachment, for logging and reporting.
	Unresolved []string
}

// HasWork reports whether the episode has anything to deliver.
func (e Episode) HasWork() bool {
	if e.Suppressed || e.IssueKey == "" {
		return false
	}
	return e.Text != "" || len(e.Attachments) > 0
}
