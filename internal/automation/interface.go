package automation

import (
	"context"
)

type UseCase interface {
	// ProcessWebhook correlates one webhook event and delivers the resulting episode
	ProcessWebhook(ctx context.Context, input ProcessWebhookInput) (ProcessWebhookOutput, error)
}
