package http

import (
	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/pkg/log"
)

// maxUploadBytes matches the largest file a Telegram bot can fetch.
const maxUploadBytes = 20 << 20

type handler struct {
	l         log.Logger
	uc        outbound.UseCase
	directory directory.Resolver
}

// New creates the HTTP handler of the internal write API.
func New(l log.Logger, uc outbound.UseCase, dir directory.Resolver) *handler {
	return &handler{
		l:         l,
		uc:        uc,
		directory: dir,
	}
}
