package webhook

import (
	"errors"
	"testing"
	"time"
)

func TestAdmissionIPFilter(t *testing.T) {
	a := NewAdmission(Config{
		IPFilterEnabled: true,
		AllowedIPs:      []string{"10.0.0.1", " 192.168.0.0/16 ", "not-a-cidr/99", ""},
	})

	tests := []struct {
		ip   string
		want error
	}{
		{"10.0.0.1", nil},
		{"192.168.3.4", nil},
		{"10.0.0.2", ErrNotAllowed},
		{"8.8.8.8", ErrNotAllowed},
		{"garbage", ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if err := a.Check(tt.ip); !errors.Is(err, tt.want) {
				t.Errorf("Check(%q) = %v, want %v", tt.ip, err, tt.want)
			}
		})
	}
}

func TestAdmissionFilterDisabled(t *testing.T) {
	a := NewAdmission(Config{AllowedIPs: []string{"10.0.0.1"}})
	if err := a.Check("8.8.8.8"); err != nil {
		t.Errorf("expected no filtering when disabled, got %v", err)
	}
}

func TestAdmissionRateLimit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newAdmission := func() *Admission {
		a := NewAdmission(Config{RateLimit: RateLimitConfig{
			Enabled:           true,
			MaxRequests:       3,
			Window:            time.Minute,
			BlacklistDuration: 10 * time.Minute,
		}})
		a.now = func() time.Time { return now }
		return a
	}

	t.Run("exceeding the window blacklists the source", func(t *testing.T) {
		a := newAdmission()
		for i := 0; i < 3; i++ {
			if err := a.Check("1.2.3.4"); err != nil {
				t.Fatalf("request %d: unexpected error %v", i+1, err)
			}
		}
		if err := a.Check("1.2.3.4"); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("4th request: got %v, want ErrRateLimited", err)
		}
		if err := a.Check("1.2.3.4"); !errors.Is(err, ErrBlacklisted) {
			t.Fatalf("5th request: got %v, want ErrBlacklisted", err)
		}
		if err := a.Check("5.6.7.8"); err != nil {
			t.Errorf("other source should be admitted, got %v", err)
		}
	})

	t.Run("window slides", func(t *testing.T) {
		a := newAdmission()
		start := now
		defer func() { now = start }()

		for i := 0; i < 3; i++ {
			if err := a.Check("1.2.3.4"); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		}
		now = now.Add(61 * time.Second)
		if err := a.Check("1.2.3.4"); err != nil {
			t.Errorf("old hits should have left the window, got %v", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		a := NewAdmission(Config{RateLimit: RateLimitConfig{MaxRequests: 1}})
		for i := 0; i < 5; i++ {
			if err := a.Check("1.2.3.4"); err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		}
	})
}
