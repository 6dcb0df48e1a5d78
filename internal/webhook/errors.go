package webhook

import "errors"

var (
	ErrNotAllowed       = errors.New("webhook: source ip not allowed")
	ErrRateLimited      = errors.New("webhook: rate limit exceeded")
	ErrBlacklisted      = errors.New("webhook: source ip temporarily blacklisted")
	ErrUnsupportedEvent = errors.New("webhook: unsupported event type")
	ErrMalformedPayload = errors.New("webhook: malformed payload")
)
