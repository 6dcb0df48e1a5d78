package telegram

import (
	"context"
	"strings"

	"jira-telegram-bridge/internal/chat"
	pkgLog "jira-telegram-bridge/pkg/log"
	pkgTelegram "jira-telegram-bridge/pkg/telegram"
)

// Telegram rejects photos above 10 MB; larger images go as documents.
const maxPhotoBytes = 10 << 20

// Bot is the subset of the Telegram client the sink needs.
type Bot interface {
	SendMessage(target pkgTelegram.Target, text string) error
	SendDocument(target pkgTelegram.Target, filename string, data []byte, caption string) error
	SendPhoto(target pkgTelegram.Target, filename string, data []byte, caption string) error
}

type sink struct {
	bot Bot
	l   pkgLog.Logger
}

// New creates a chat.Sink that delivers through a Telegram bot.
func New(bot Bot, l pkgLog.Logger) chat.Sink {
	return &sink{bot: bot, l: l}
}

func (s *sink) SendText(ctx context.Context, target string, text string) error {
	t, err := pkgTelegram.ParseTarget(target)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bot.SendMessage(t, text)
}

func (s *sink) SendFile(ctx context.Context, target string, file chat.File) error {
	if len(file.Data) == 0 {
		return chat.ErrEmptyFile
	}
	t, err := pkgTelegram.ParseTarget(target)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if isPhoto(file) {
		err := s.bot.SendPhoto(t, file.Name, file.Data, file.IssueKey)
		if err == nil {
			return nil
		}
		// Dimension or format rejects are common; a document always goes through.
		s.l.Warnf(ctx, "telegram sink: photo %s rejected, retrying as document: %v", file.Name, err)
	}
	return s.bot.SendDocument(t, file.Name, file.Data, file.IssueKey)
}

func isPhoto(f chat.File) bool {
	if len(f.Data) > maxPhotoBytes {
		return false
	}
	switch strings.ToLower(f.MimeType) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}
