package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/pkg/log"
)

// WebhookHandler receives tracker webhooks.
type WebhookHandler interface {
	HandleJiraWebhook(c *gin.Context)
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	registry    *prometheus.Registry

	// Inbound: tracker webhooks
	webhookHandler WebhookHandler

	// Outbound: internal write API
	outboundUC  outbound.UseCase
	directory   directory.Resolver
	internalKey string
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	Registry    *prometheus.Registry

	// Inbound: tracker webhooks
	WebhookHandler WebhookHandler

	// Outbound: internal write API
	OutboundUC  outbound.UseCase
	Directory   directory.Resolver
	InternalKey string
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		registry:       cfg.Registry,
		webhookHandler: cfg.WebhookHandler,
		outboundUC:     cfg.OutboundUC,
		directory:      cfg.Directory,
		internalKey:    cfg.InternalKey,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.registry == nil {
		return errors.New("metrics registry is required")
	}
	if srv.outboundUC != nil && srv.directory == nil {
		return errors.New("directory is required with the outbound API")
	}
	return nil
}
