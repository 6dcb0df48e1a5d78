package delivery

import (
	"context"

	"jira-telegram-bridge/internal/attachment"
)

// UseCase delivers a correlated episode to chat.
type UseCase interface {
	Deliver(ctx context.Context, in DeliverInput) Result
}

// Downloader fetches attachment bytes from candidate URLs.
type Downloader interface {
	Download(ctx context.Context, urls []string) attachment.Outcome
}
