package chat

import "context"

// Sink delivers content to a chat. Implementations are platform specific;
// callers only see success or failure.
type Sink interface {
	SendText(ctx context.Context, target string, text string) error
	SendFile(ctx context.Context, target string, file File) error
}
