package correlation

import (
	"strings"

	"jira-telegram-bridge/internal/model"
)

// MatchPolicy tunes how a reference is matched against issue attachments.
//
// Matching is tried in this order: attachment id, exact filename
// (case-sensitive, then case-insensitive), then substring containment of
// one filename in the other when AllowSubstring is set. Among several
// matches of the same rank the most recently created attachment wins.
type MatchPolicy struct {
	AllowSubstring bool
}

// DefaultMatchPolicy enables substring matching.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{AllowSubstring: true}
}

// MatchIssueAttachment picks the attachment ref points at. Attachments whose
// id is in exclude are never returned.
func MatchIssueAttachment(ref Reference, atts []model.IssueAttachment, exclude map[string]bool, policy MatchPolicy) (model.IssueAttachment, bool) {
	if ref.AttachmentID != "" {
		for _, a := range atts {
			if a.ID == ref.AttachmentID && !exclude[a.ID] {
				return a, true
			}
		}
	}

	name := strings.TrimSpace(ref.Filename)
	if name == "" {
		return model.IssueAttachment{}, false
	}
	lower := strings.ToLower(name)

	rules := []func(model.IssueAttachment) bool{
		func(a model.IssueAttachment) bool { return a.Filename == name },
		func(a model.IssueAttachment) bool { return strings.ToLower(a.Filename) == lower },
	}
	if policy.AllowSubstring {
		rules = append(rules, func(a model.IssueAttachment) bool {
			fn := strings.ToLower(a.Filename)
			return fn != "" && (strings.Contains(fn, lower) || strings.Contains(lower, fn))
		})
	}

	for _, rule := range rules {
		if a, ok := newest(atts, exclude, rule); ok {
			return a, true
		}
	}
	return model.IssueAttachment{}, false
}

func newest(atts []model.IssueAttachment, exclude map[string]bool, match func(model.IssueAttachment) bool) (model.IssueAttachment, bool) {
	var best model.IssueAttachment
	found := false
	for _, a := range atts {
		if exclude[a.ID] || !match(a) {
			continue
		}
		if !found || a.Created.After(best.Created) {
			best, found = a, true
		}
	}
	return best, found
}
