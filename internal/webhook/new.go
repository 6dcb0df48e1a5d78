package webhook

import (
	"jira-telegram-bridge/internal/automation"
	pkgLog "jira-telegram-bridge/pkg/log"
)

type Handler struct {
	automationUC automation.UseCase
	admission    *Admission
	jiraParser   *JiraWebhookParser
	queue        *keyedQueue
	cfg          Config
	l            pkgLog.Logger
}

func NewHandler(
	automationUC automation.UseCase,
	cfg Config,
	l pkgLog.Logger,
) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = defaultDispatchTimeout
	}
	return &Handler{
		automationUC: automationUC,
		admission:    NewAdmission(cfg),
		jiraParser:   NewJiraParser(),
		queue:        newKeyedQueue(),
		cfg:          cfg,
		l:            l,
	}
}
