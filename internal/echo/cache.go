package echo

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultTTL        = 2 * time.Minute
	DefaultMaxEntries = 10000
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Inline attachment markup the tracker adds around uploaded files.
	embedRe = regexp.MustCompile(`!(?:[^!\s|][^!\n|]*\|[^!\n]*|[^!\s|]+\.[A-Za-z0-9]{1,8})!`)
)

// Cache remembers fingerprints of content this service wrote to the tracker
// so the webhooks the tracker emits for those writes can be dropped.
type Cache struct {
	entries *expirable.LRU[string, time.Time]
}

// New creates a Cache. Non-positive arguments take defaults.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries: expirable.NewLRU[string, time.Time](maxEntries, nil, ttl),
	}
}

// Record marks a comment body as written by us on issueKey.
func (c *Cache) Record(issueKey, content string) {
	c.entries.Add(Fingerprint(issueKey, content), time.Now())
}

// RecordFile marks a file upload as written by us on issueKey.
func (c *Cache) RecordFile(issueKey, filename string) {
	c.entries.Add(fileFingerprint(issueKey, filename), time.Now())
}

// Forget drops a comment fingerprint, for writes that never reached the
// tracker.
func (c *Cache) Forget(issueKey, content string) {
	c.entries.Remove(Fingerprint(issueKey, content))
}

// ForgetFile drops a file fingerprint.
func (c *Cache) ForgetFile(issueKey, filename string) {
	c.entries.Remove(fileFingerprint(issueKey, filename))
}

// Seen reports whether the comment body matches one of our recent writes.
func (c *Cache) Seen(issueKey, content string) bool {
	_, ok := c.entries.Get(Fingerprint(issueKey, content))
	return ok
}

// SeenFile reports whether the file matches one of our recent uploads.
func (c *Cache) SeenFile(issueKey, filename string) bool {
	_, ok := c.entries.Get(fileFingerprint(issueKey, filename))
	return ok
}

// Len returns the number of live fingerprints.
func (c *Cache) Len() int {
	return len(c.entries.Keys())
}

// Fingerprint hashes the issue key together with the normalized text.
func Fingerprint(issueKey, content string) string {
	return hash("comment", issueKey, Normalize(content))
}

func fileFingerprint(issueKey, filename string) string {
	return hash("file", issueKey, strings.ToLower(strings.TrimSpace(filename)))
}

func hash(kind, issueKey, value string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + strings.ToUpper(strings.TrimSpace(issueKey)) + "\x00" + value))
	return hex.EncodeToString(sum[:])
}

// Normalize strips attachment markup, collapses whitespace and lower-cases
// text so cosmetic rewrites by the tracker do not change the fingerprint.
func Normalize(content string) string {
	s := embedRe.ReplaceAllString(content, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
