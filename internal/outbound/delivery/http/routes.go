package http

import (
	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/internal/middleware"
)

// RegisterRoutes maps the internal API under rg. Every route requires the
// internal key.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	issues := rg.Group("/issues", mw.InternalAuth())
	{
		issues.POST("/:key/comments", h.AddComment)
		issues.POST("/:key/attachments", h.AttachFile)
		issues.PUT("/:key/target", h.RegisterTarget)
	}
}
