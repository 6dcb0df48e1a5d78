package correlation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jira-telegram-bridge/internal/attachment"
	"jira-telegram-bridge/internal/metrics"
	"jira-telegram-bridge/internal/model"
	pkgLog "jira-telegram-bridge/pkg/log"
)

// Correlator joins attachment and comment events into episodes.
type Correlator struct {
	cfg       Config
	pending   *PendingCache
	echo      EchoChecker
	lookup    IssueLookup
	delivered *deliveredSet
	l         pkgLog.Logger
	now       func() time.Time
}

// New creates a Correlator. lookup may be nil, in which case references that
// miss the caches and the webhook payload stay unresolved.
func New(l pkgLog.Logger, cfg Config, pending *PendingCache, echo EchoChecker, lookup IssueLookup) (*Correlator, error) {
	if pending == nil {
		return nil, ErrNilPendingCache
	}
	if strings.TrimSpace(cfg.Domain) == "" {
		return nil, ErrMissingDomain
	}
	if cfg.Window <= 0 {
		cfg.Window = pending.ttl
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if echo == nil {
		echo = noEcho{}
	}
	return &Correlator{
		cfg:       cfg,
		pending:   pending,
		echo:      echo,
		lookup:    lookup,
		delivered: newDeliveredSet(cfg.DeliveredTTL, cfg.DeliveredMaxEntries),
		l:         l,
		now:       time.Now,
	}, nil
}

// Handle correlates one event. It never fails: misses are reported through
// Episode.Unresolved and logged.
func (c *Correlator) Handle(ctx context.Context, ev model.WebhookEvent) Episode {
	ep := Episode{
		ID:       pkgLog.EpisodeFromContext(ctx),
		IssueKey: strings.TrimSpace(ev.IssueKey()),
	}
	if ep.ID == "" {
		ep.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = c.now()
	}

	switch {
	case ev.Kind == model.EventAttachmentCreated && ev.Attachment != nil:
		c.handleAttachment(ctx, &ep, *ev.Attachment, ev.ReceivedAt)
	case ev.Kind == model.EventCommentCreated && ev.Comment != nil:
		c.handleComment(ctx, &ep, *ev.Comment)
	default:
		c.l.Warnf(ctx, "correlation: ignoring malformed event of kind %q", ev.Kind)
	}
	return ep
}

func (c *Correlator) handleAttachment(ctx context.Context, ep *Episode, a model.AttachmentCreated, receivedAt time.Time) {
	if a.AttachmentID == "" {
		c.l.Warnf(ctx, "correlation: attachment event without id (filename %q), ignoring", a.Filename)
		return
	}

	if ep.IssueKey == "" {
		parked := c.pending.PutUnless(model.PendingAttachment{
			AttachmentID: a.AttachmentID,
			Filename:     a.Filename,
			MimeType:     a.MimeType,
			ContentURL:   a.ContentURL,
			SelfURL:      a.SelfURL,
			ReceivedAt:   receivedAt,
		}, c.delivered.seenID)
		if !parked {
			c.l.Debugf(ctx, "correlation: attachment %s already resolved, ignoring", a.AttachmentID)
			return
		}
		metrics.PendingCachedTotal.Inc()
		c.l.Infof(ctx, "correlation: attachment %s (%s) has no issue key, waiting for a comment", a.AttachmentID, a.Filename)
		return
	}

	if c.echo.SeenFile(ep.IssueKey, a.Filename) {
		ep.Suppressed = true
		metrics.EchoSuppressedTotal.Inc()
		c.l.Infof(ctx, "correlation: attachment %s on %s is our own upload, suppressed", a.AttachmentID, ep.IssueKey)
		return
	}

	used := make(map[string]bool)
	ra := c.resolved(ep.IssueKey, a.AttachmentID, a.Filename, a.MimeType, a.ContentURL)
	if c.claim(ep, used, ra, "direct") {
		ep.Attachments = append(ep.Attachments, ra)
	}
}

// slot is one inline reference of a comment, in textual order.
type slot struct {
	ref      Reference
	resolved *model.ResolvedAttachment
}

func (c *Correlator) handleComment(ctx context.Context, ep *Episode, cm model.CommentCreated) {
	ep.Author = cm.Author
	if ep.IssueKey == "" {
		c.l.Warnf(ctx, "correlation: comment %s without issue key, ignoring", cm.CommentID)
		return
	}

	if c.cfg.BridgeAccountID != "" && cm.AuthorAccountID == c.cfg.BridgeAccountID {
		ep.Suppressed = true
		metrics.EchoSuppressedTotal.Inc()
		c.l.Infof(ctx, "correlation: comment %s on %s authored by bridge account, suppressed", cm.CommentID, ep.IssueKey)
		return
	}
	if c.echo.Seen(ep.IssueKey, cm.Body) {
		ep.Suppressed = true
		metrics.EchoSuppressedTotal.Inc()
		c.l.Infof(ctx, "correlation: comment %s on %s is an echo, suppressed", cm.CommentID, ep.IssueKey)
		return
	}

	ep.Text = StripMarkup(cm.Body)
	used := make(map[string]bool)

	slots := c.embeddedSlots(ctx, ep.IssueKey, cm.Body)
	var misses []*slot
	for _, s := range slots {
		if !c.resolveLocally(ep, used, s, cm.IssueAttachments) {
			misses = append(misses, s)
		}
	}
	if len(misses) > 0 {
		c.resolveRemotely(ctx, ep, used, misses)
	}

	for _, s := range slots {
		if s.resolved != nil {
			ep.Attachments = append(ep.Attachments, *s.resolved)
		}
	}
	ep.Attachments = append(ep.Attachments, c.issueLevel(ep, used, cm.IssueAttachments)...)

	if len(ep.Unresolved) > 0 {
		metrics.CorrelationUnresolvedTotal.Add(float64(len(ep.Unresolved)))
		c.l.Warnf(ctx, "correlation: %d reference(s) on %s unresolved: %s", len(ep.Unresolved), ep.IssueKey, strings.Join(ep.Unresolved, ", "))
	}
}

// embeddedSlots extracts the inline references of body, dropping duplicates
// and files we uploaded ourselves.
func (c *Correlator) embeddedSlots(ctx context.Context, issueKey, body string) []*slot {
	refs := ExtractReferences(body)

	idNames := make(map[string]bool)
	for _, ref := range refs {
		if ref.AttachmentID != "" && ref.Filename != "" {
			idNames[normalizeFilename(ref.Filename)] = true
		}
	}

	var slots []*slot
	seen := make(map[string]bool)
	for _, ref := range refs {
		k := ref.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		if ref.AttachmentID == "" && idNames[normalizeFilename(ref.Filename)] {
			continue
		}
		if ref.Filename != "" && c.echo.SeenFile(issueKey, ref.Filename) {
			c.l.Debugf(ctx, "correlation: reference %s on %s is our own upload, skipped", ref.Filename, issueKey)
			continue
		}
		slots = append(slots, &slot{ref: ref})
	}
	return slots
}

// resolveLocally tries the pending cache and then the attachments listed in
// the webhook payload. It reports whether the slot is settled.
func (c *Correlator) resolveLocally(ep *Episode, used map[string]bool, s *slot, payload []model.IssueAttachment) bool {
	ref := s.ref

	if ref.AttachmentID != "" {
		if used[ref.AttachmentID] || c.delivered.has(ep.IssueKey, ref.AttachmentID) {
			return true
		}
		if p, ok := c.pending.Take(ref.AttachmentID); ok {
			c.fill(ep, used, s, c.fromPending(ep.IssueKey, p), "pending")
			return true
		}
	}
	// An id is the join key: a different pending file with a similar name
	// must not stand in for it.
	if ref.AttachmentID == "" && ref.Filename != "" {
		if p, ok := c.pending.TakeByFilename(ref.Filename, c.cfg.Match.AllowSubstring); ok {
			c.fill(ep, used, s, c.fromPending(ep.IssueKey, p), "pending")
			return true
		}
	}
	if a, ok := MatchIssueAttachment(ref, payload, used, c.cfg.Match); ok {
		c.fill(ep, used, s, c.fromIssue(ep.IssueKey, a), "issue_level")
		return true
	}
	return false
}

// resolveRemotely asks the tracker for the issue's attachments once and
// matches every remaining slot against them. No cache lock is held here.
func (c *Correlator) resolveRemotely(ctx context.Context, ep *Episode, used map[string]bool, misses []*slot) {
	if c.lookup == nil {
		for _, s := range misses {
			ep.Unresolved = append(ep.Unresolved, s.ref.label())
		}
		return
	}

	lctx, cancel := context.WithTimeout(ctx, c.cfg.LookupTimeout)
	atts, err := c.lookup.IssueAttachments(lctx, ep.IssueKey)
	cancel()
	if err != nil {
		c.l.Errorf(ctx, "correlation: issue lookup for %s failed: %v", ep.IssueKey, err)
		for _, s := range misses {
			ep.Unresolved = append(ep.Unresolved, s.ref.label())
		}
		return
	}

	for _, s := range misses {
		a, ok := MatchIssueAttachment(s.ref, atts, used, c.cfg.Match)
		if !ok {
			ep.Unresolved = append(ep.Unresolved, s.ref.label())
			continue
		}
		c.fill(ep, used, s, c.fromIssue(ep.IssueKey, a), "api")
	}
}

// issueLevel returns the payload attachments not referenced inline that are
// new: either parked in the pending cache or created inside the window.
func (c *Correlator) issueLevel(ep *Episode, used map[string]bool, payload []model.IssueAttachment) []model.ResolvedAttachment {
	var out []model.ResolvedAttachment
	now := c.now()
	for _, a := range payload {
		if a.ID == "" || used[a.ID] {
			continue
		}
		if c.echo.SeenFile(ep.IssueKey, a.Filename) {
			continue
		}

		ra := c.fromIssue(ep.IssueKey, a)
		path := "issue_level"
		if p, ok := c.pending.Take(a.ID); ok {
			ra = mergePending(ra, c.fromPending(ep.IssueKey, p))
			path = "pending"
		} else if a.Created.IsZero() || now.Sub(a.Created) > c.cfg.Window {
			continue
		}

		if c.claim(ep, used, ra, path) {
			out = append(out, ra)
		}
	}
	return out
}

func (c *Correlator) fill(ep *Episode, used map[string]bool, s *slot, ra model.ResolvedAttachment, path string) {
	if c.claim(ep, used, ra, path) {
		s.resolved = &ra
	}
}

// claim marks ra as used by this episode and as delivered on its issue. It
// returns false when the attachment was already handed out.
//
// The pending entry is dropped only after the mark: a key-less event parks
// through PutUnless, so it either lands before this Take or sees the mark.
func (c *Correlator) claim(ep *Episode, used map[string]bool, ra model.ResolvedAttachment, path string) bool {
	if used[ra.AttachmentID] {
		return false
	}
	used[ra.AttachmentID] = true
	fresh := c.delivered.mark(ep.IssueKey, ra.AttachmentID)
	c.pending.Take(ra.AttachmentID)
	if !fresh {
		return false
	}
	metrics.CorrelationResolvedTotal.WithLabelValues(path).Inc()
	return true
}

func (c *Correlator) fromPending(issueKey string, p model.PendingAttachment) model.ResolvedAttachment {
	return c.resolved(issueKey, p.AttachmentID, p.Filename, p.MimeType, p.ContentURL)
}

func (c *Correlator) fromIssue(issueKey string, a model.IssueAttachment) model.ResolvedAttachment {
	return c.resolved(issueKey, a.ID, a.Filename, a.MimeType, a.ContentURL)
}

func (c *Correlator) resolved(issueKey, id, filename, mimeType, contentURL string) model.ResolvedAttachment {
	return model.ResolvedAttachment{
		AttachmentID:  id,
		Filename:      filename,
		MimeType:      mimeType,
		ContentURL:    contentURL,
		CandidateURLs: attachment.BuildCandidateURLs(c.cfg.Domain, id, filename, contentURL),
		IssueKey:      issueKey,
	}
}

// mergePending fills gaps in the payload metadata from the cached event.
func mergePending(ra, p model.ResolvedAttachment) model.ResolvedAttachment {
	if ra.Filename == "" {
		ra.Filename = p.Filename
	}
	if ra.MimeType == "" {
		ra.MimeType = p.MimeType
	}
	if ra.ContentURL == "" {
		ra.ContentURL = p.ContentURL
		ra.CandidateURLs = p.CandidateURLs
	}
	return ra
}

type noEcho struct{}

func (noEcho) Seen(string, string) bool     { return false }
func (noEcho) SeenFile(string, string) bool { return false }
