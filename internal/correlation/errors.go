package correlation

import "errors"

var (
	ErrNilPendingCache = errors.New("correlation: pending cache is required")
	ErrMissingDomain   = errors.New("correlation: tracker domain is required")
)
