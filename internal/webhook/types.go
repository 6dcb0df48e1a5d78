package webhook

import "time"

// Config holds webhook ingress settings
type Config struct {
	IPFilterEnabled bool     // Reject sources not in AllowedIPs
	AllowedIPs      []string // Exact addresses or CIDR ranges
	MaxBodyBytes    int64    // Larger payloads are dropped
	RateLimit       RateLimitConfig
	DispatchTimeout time.Duration // Upper bound for one event's processing
}

// RateLimitConfig configures the per-IP sliding window
type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int           // Requests allowed per Window
	Window            time.Duration // Sliding window length
	BlacklistDuration time.Duration // How long an offending IP is refused
}

const (
	defaultMaxBodyBytes      = 1 << 20
	defaultDispatchTimeout   = 2 * time.Minute
	defaultMaxRequests       = 60
	defaultWindow            = time.Minute
	defaultBlacklistDuration = 10 * time.Minute
)
