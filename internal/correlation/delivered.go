package correlation

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// deliveredSet remembers which attachments were already handed to delivery,
// so a later event about the same attachment is a no-op.
type deliveredSet struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, struct{}]
}

func newDeliveredSet(ttl time.Duration, maxEntries int) *deliveredSet {
	if ttl <= 0 {
		ttl = DefaultDeliveredTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultDeliveredMaxEntries
	}
	return &deliveredSet{entries: expirable.NewLRU[string, struct{}](maxEntries, nil, ttl)}
}

// mark records (issueKey, id) and reports whether it was new.
func (d *deliveredSet) mark(issueKey, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := pairKey(issueKey, id)
	if _, ok := d.entries.Get(k); ok {
		return false
	}
	d.entries.Add(k, struct{}{})
	d.entries.Add("id:"+id, struct{}{})
	return true
}

// has reports whether (issueKey, id) was delivered.
func (d *deliveredSet) has(issueKey, id string) bool {
	_, ok := d.entries.Get(pairKey(issueKey, id))
	return ok
}

// seenID reports whether id was delivered on any issue.
func (d *deliveredSet) seenID(id string) bool {
	_, ok := d.entries.Get("id:" + id)
	return ok
}

func pairKey(issueKey, id string) string {
	return strings.ToUpper(issueKey) + "|" + id
}
