package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/internal/middleware"
	outboundHTTP "jira-telegram-bridge/internal/outbound/delivery/http"
)

// setupOutboundDomain registers the internal write API used by the chat side.
func (srv HTTPServer) setupOutboundDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	if srv.internalKey == "" {
		srv.l.Warnf(ctx, "internal_api.key is empty: /api/v1 routes will refuse every request")
	}

	h := outboundHTTP.New(srv.l, srv.outboundUC, srv.directory)

	// Routes: registers /api/v1/issues/:key/{comments,attachments,target}
	outboundHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Outbound domain registered")
	return nil
}
