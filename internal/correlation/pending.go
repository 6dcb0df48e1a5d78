package correlation

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"jira-telegram-bridge/internal/model"
)

const (
	DefaultPendingTTL        = 10 * time.Minute
	DefaultPendingMaxEntries = 5000
)

// PendingCache holds attachments that arrived without an issue key until a
// comment claims them. Entries are indexed by attachment id and by
// normalized filename, and are unreachable after the TTL.
//
// The filename index may still list ids whose entry was purged or evicted.
// Filename reads check each id through liveLocked and skip the dead ones.
type PendingCache struct {
	ttl    time.Duration
	mu     sync.Mutex
	byID   *expirable.LRU[string, model.PendingAttachment]
	byName *expirable.LRU[string, []string]
}

// NewPendingCache creates a PendingCache. Non-positive arguments take defaults.
func NewPendingCache(ttl time.Duration, maxEntries int) *PendingCache {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultPendingMaxEntries
	}
	return &PendingCache{
		ttl:    ttl,
		byID:   expirable.NewLRU[string, model.PendingAttachment](maxEntries, nil, ttl),
		byName: expirable.NewLRU[string, []string](maxEntries, nil, ttl),
	}
}

// Put inserts or replaces the entry for entry.AttachmentID.
func (p *PendingCache) Put(entry model.PendingAttachment) {
	p.PutUnless(entry, nil)
}

// PutUnless inserts entry unless skip reports its id, and reports whether
// the entry was stored. skip runs under the cache lock, so an id that a
// concurrent caller marks before taking it from the cache is never parked.
func (p *PendingCache) PutUnless(entry model.PendingAttachment, skip func(id string) bool) bool {
	if entry.AttachmentID == "" {
		return false
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if skip != nil && skip(entry.AttachmentID) {
		return false
	}

	if old, ok := p.byID.Peek(entry.AttachmentID); ok {
		p.unindex(old.Filename, old.AttachmentID)
	}
	p.byID.Add(entry.AttachmentID, entry)

	name := normalizeFilename(entry.Filename)
	if name == "" {
		return true
	}
	ids, _ := p.byName.Peek(name)
	p.byName.Add(name, append(withoutID(ids, entry.AttachmentID), entry.AttachmentID))
	return true
}

// Get returns the live entry for id without removing it.
func (p *PendingCache) Get(id string) (model.PendingAttachment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liveLocked(id)
}

// Take removes and returns the live entry for id.
func (p *PendingCache) Take(id string) (model.PendingAttachment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.takeLocked(id)
}

// TakeByFilename removes and returns the newest live entry whose filename
// equals name (case-insensitive). With allowSubstring, a filename containing
// name or contained in it also matches when no exact match exists.
func (p *PendingCache) TakeByFilename(name string, allowSubstring bool) (model.PendingAttachment, bool) {
	norm := normalizeFilename(name)
	if norm == "" {
		return model.PendingAttachment{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok := p.takeNewestLocked(norm); ok {
		return entry, true
	}
	if !allowSubstring {
		return model.PendingAttachment{}, false
	}

	keys := p.byName.Keys() // oldest to newest
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		if k == norm || !(strings.Contains(k, norm) || strings.Contains(norm, k)) {
			continue
		}
		if entry, ok := p.takeNewestLocked(k); ok {
			return entry, true
		}
	}
	return model.PendingAttachment{}, false
}

// Len returns the number of live entries.
func (p *PendingCache) Len() int {
	return len(p.byID.Keys())
}

func (p *PendingCache) takeNewestLocked(norm string) (model.PendingAttachment, bool) {
	ids, ok := p.byName.Peek(norm)
	if !ok {
		return model.PendingAttachment{}, false
	}
	for i := len(ids) - 1; i >= 0; i-- {
		entry, ok := p.liveLocked(ids[i])
		if !ok || normalizeFilename(entry.Filename) != norm {
			continue
		}
		return p.takeLocked(ids[i])
	}
	p.byName.Remove(norm)
	return model.PendingAttachment{}, false
}

func (p *PendingCache) takeLocked(id string) (model.PendingAttachment, bool) {
	entry, ok := p.liveLocked(id)
	if !ok {
		return model.PendingAttachment{}, false
	}
	p.byID.Remove(id)
	p.unindex(entry.Filename, id)
	return entry, true
}

// liveLocked returns the entry only if it is still inside the TTL window,
// independently of when the background purge runs.
func (p *PendingCache) liveLocked(id string) (model.PendingAttachment, bool) {
	entry, ok := p.byID.Peek(id)
	if !ok {
		return model.PendingAttachment{}, false
	}
	if time.Since(entry.ReceivedAt) > p.ttl {
		p.byID.Remove(id)
		p.unindex(entry.Filename, id)
		return model.PendingAttachment{}, false
	}
	return entry, true
}

func (p *PendingCache) unindex(filename, id string) {
	name := normalizeFilename(filename)
	ids, ok := p.byName.Peek(name)
	if !ok {
		return
	}
	rest := withoutID(ids, id)
	if len(rest) == 0 {
		p.byName.Remove(name)
		return
	}
	p.byName.Add(name, rest)
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
