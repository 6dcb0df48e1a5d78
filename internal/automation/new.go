package automation

import (
	"jira-telegram-bridge/internal/correlation"
	"jira-telegram-bridge/internal/delivery"
	pkgLog "jira-telegram-bridge/pkg/log"
)

func New(
	correlator correlation.UseCase,
	deliverer delivery.UseCase,
	l pkgLog.Logger,
) UseCase {
	return &usecase{
		correlator: correlator,
		deliverer:  deliverer,
		l:          l,
	}
}
