package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/pkg/response"
)

// InternalKeyHeader carries the shared key of the internal API.
const InternalKeyHeader = "X-API-Key"

// InternalAuth admits requests carrying the configured internal key. With no
// key configured every request is refused.
func (m Middleware) InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(InternalKeyHeader)
		if m.internalKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.internalKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "middleware: internal auth rejected %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
