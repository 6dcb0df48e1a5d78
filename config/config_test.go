package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		HTTPServer: HTTPServerConfig{Port: 8080},
		Jira:       JiraConfig{Domain: "acme.atlassian.net", Email: "bot@acme.io", APIToken: "token"},
		Telegram:   TelegramConfig{BotToken: "123:abc"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing domain", func(c *Config) { c.Jira.Domain = " " }},
		{"missing token", func(c *Config) { c.Jira.APIToken = "" }},
		{"missing email", func(c *Config) { c.Jira.Email = "" }},
		{"missing bot token", func(c *Config) { c.Telegram.BotToken = "" }},
		{"bad port", func(c *Config) { c.HTTPServer.Port = 0 }},
		{"bad jitter", func(c *Config) { c.Download.JitterPct = 1.5 }},
		{"sheet without credentials", func(c *Config) { c.Directory.SpreadsheetID = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseDurations(t *testing.T) {
	got, err := parseDurations(" 1s, 2s,,4s ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := parseDurations("1s,soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
	if got, _ := parseDurations(""); len(got) != 0 {
		t.Errorf("empty input gave %v", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("10.0.0.1, 192.168.0.0/16 ,")
	if len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "192.168.0.0/16" {
		t.Errorf("splitList() = %v", got)
	}
}
