package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"jira-telegram-bridge/internal/middleware"
	"jira-telegram-bridge/internal/model"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "Request logging: off (production)")
	} else {
		srv.gin.Use(gin.Logger())
		srv.l.Infof(ctx, "Request logging: on (%s)", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{})))

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/jira", srv.webhookHandler.HandleJiraWebhook)
		srv.l.Infof(ctx, "Jira webhook route registered at POST /webhook/jira")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping Jira webhook route")
	}

	if srv.outboundUC != nil {
		mw := middleware.New(srv.l, srv.internalKey)
		if err := srv.setupOutboundDomain(ctx, srv.gin.Group("/api/v1"), mw); err != nil {
			return err
		}
	} else {
		srv.l.Infof(ctx, "Outbound API not configured, skipping /api/v1 routes")
	}

	return nil
}
