package telegram

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLength = 4096
	maxCaptionLength = 1024
)

// Bot is a thin wrapper over the Telegram Bot API client.
type Bot struct {
	api *tgbotapi.BotAPI
}

// NewBot creates a Bot against api.telegram.org. It calls getMe, so an
// invalid token fails here.
func NewBot(token string) (*Bot, error) {
	return NewBotWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{})
}

// NewBotWithEndpoint creates a Bot against a custom endpoint, e.g. a local
// Bot API server or a test server. endpoint is a format string taking the
// token and the method name.
func NewBotWithEndpoint(token, endpoint string, client *http.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Bot{api: api}, nil
}

// Username returns the bot's username as reported by getMe.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SendMessage sends a plain text message.
func (b *Bot) SendMessage(target Target, text string) error {
	var msg tgbotapi.MessageConfig
	if target.Channel != "" {
		msg = tgbotapi.NewMessageToChannel(target.Channel, truncate(text, maxMessageLength))
	} else {
		msg = tgbotapi.NewMessage(target.ChatID, truncate(text, maxMessageLength))
	}
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}

// SendDocument uploads data as a document.
func (b *Bot) SendDocument(target Target, filename string, data []byte, caption string) error {
	file := tgbotapi.FileBytes{Name: filename, Bytes: data}

	var doc tgbotapi.DocumentConfig
	if target.Channel != "" {
		doc = tgbotapi.DocumentConfig{
			BaseFile: tgbotapi.BaseFile{
				BaseChat: tgbotapi.BaseChat{ChannelUsername: target.Channel},
				File:     file,
			},
		}
	} else {
		doc = tgbotapi.NewDocument(target.ChatID, file)
	}
	doc.Caption = truncate(caption, maxCaptionLength)

	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("telegram sendDocument failed: %w", err)
	}
	return nil
}

// SendPhoto uploads data as a compressed photo.
func (b *Bot) SendPhoto(target Target, filename string, data []byte, caption string) error {
	file := tgbotapi.FileBytes{Name: filename, Bytes: data}

	var photo tgbotapi.PhotoConfig
	if target.Channel != "" {
		photo = tgbotapi.NewPhotoToChannel(target.Channel, file)
	} else {
		photo = tgbotapi.NewPhoto(target.ChatID, file)
	}
	photo.Caption = truncate(caption, maxCaptionLength)

	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("telegram sendPhoto failed: %w", err)
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
