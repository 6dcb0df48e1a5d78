package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned when a chat target is neither a numeric chat
// id nor an @channel username.
var ErrInvalidTarget = errors.New("telegram target must be @username or chat_id")

// Target identifies a chat: either a numeric chat id or a public channel
// username starting with "@".
type Target struct {
	ChatID  int64
	Channel string
}

// ParseTarget parses a configured or directory-provided chat target.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") && len(raw) > 1 {
		return Target{Channel: raw}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return Target{}, ErrInvalidTarget
	}
	return Target{ChatID: id}, nil
}

// String returns the target in its configured form.
func (t Target) String() string {
	if t.Channel != "" {
		return t.Channel
	}
	return strconv.FormatInt(t.ChatID, 10)
}
