package webhook

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxTrackedIPs = 1000

// Admission is the ingress filter: an optional IP allow-list followed by a
// per-IP sliding-window rate limit with a temporary blacklist.
type Admission struct {
	cfg      Config
	exact    map[string]bool
	networks []*net.IPNet

	mu        sync.Mutex
	windows   *expirable.LRU[string, []time.Time]
	blacklist *expirable.LRU[string, time.Time]
	now       func() time.Time
}

func NewAdmission(cfg Config) *Admission {
	rl := &cfg.RateLimit
	if rl.MaxRequests <= 0 {
		rl.MaxRequests = defaultMaxRequests
	}
	if rl.Window <= 0 {
		rl.Window = defaultWindow
	}
	if rl.BlacklistDuration <= 0 {
		rl.BlacklistDuration = defaultBlacklistDuration
	}

	a := &Admission{
		cfg:   cfg,
		exact: make(map[string]bool),
		windows: expirable.NewLRU[string, []time.Time](
			maxTrackedIPs, // Max unique sources
			nil,           // No eviction callback
			rl.Window,     // Idle sources drop out after one window
		),
		blacklist: expirable.NewLRU[string, time.Time](maxTrackedIPs, nil, rl.BlacklistDuration),
		now:       time.Now,
	}

	for _, allowed := range cfg.AllowedIPs {
		allowed = strings.TrimSpace(allowed)
		if allowed == "" {
			continue
		}
		// Check CIDR range
		if strings.Contains(allowed, "/") {
			if _, ipNet, err := net.ParseCIDR(allowed); err == nil {
				a.networks = append(a.networks, ipNet)
			}
			continue
		}
		a.exact[allowed] = true
	}
	return a
}

// Check admits or rejects a request from ip. It returns ErrNotAllowed,
// ErrBlacklisted or ErrRateLimited on rejection.
func (a *Admission) Check(ip string) error {
	if a.cfg.IPFilterEnabled && !a.allowed(ip) {
		return ErrNotAllowed
	}
	if !a.cfg.RateLimit.Enabled {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blacklist.Get(ip); ok {
		return ErrBlacklisted
	}

	now := a.now()
	cutoff := now.Add(-a.cfg.RateLimit.Window)
	hits, _ := a.windows.Get(ip)
	kept := hits[:0:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)

	if len(kept) > a.cfg.RateLimit.MaxRequests {
		a.windows.Remove(ip)
		a.blacklist.Add(ip, now)
		return ErrRateLimited
	}
	a.windows.Add(ip, kept)
	return nil
}

func (a *Admission) allowed(ip string) bool {
	if a.exact[ip] {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range a.networks {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}
