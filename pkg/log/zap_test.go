package log_test

import (
	"context"
	"testing"

	"jira-telegram-bridge/pkg/log"
)

func TestEpisodeContext(t *testing.T) {
	ctx := log.WithEpisode(context.Background(), "ep-1")
	if got := log.EpisodeFromContext(ctx); got != "ep-1" {
		t.Errorf("expected ep-1, got %q", got)
	}
	if got := log.EpisodeFromContext(context.Background()); got != "" {
		t.Errorf("expected empty episode, got %q", got)
	}
}

func TestInit(t *testing.T) {
	t.Run("Console", func(t *testing.T) {
		l := log.Init(log.ZapConfig{Level: "debug", Mode: "development", Encoding: "console", ColorEnabled: true})
		l.Infof(log.WithEpisode(context.Background(), "ep-2"), "hello %s", "world")
	})

	t.Run("JSON invalid level falls back", func(t *testing.T) {
		l := log.Init(log.ZapConfig{Level: "nope", Mode: log.ModeProduction, Encoding: log.EncodingJSON})
		l.Warn(context.Background(), "still logs")
	})

	t.Run("Nop", func(t *testing.T) {
		log.NewNop().Error(context.Background(), "discarded")
	})
}
