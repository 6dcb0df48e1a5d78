package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/pkg/response"
)

// writeError translates use-case errors into HTTP responses.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, outbound.ErrEmptyIssueKey),
		errors.Is(err, outbound.ErrEmptyText),
		errors.Is(err, outbound.ErrEmptyFile),
		errors.Is(err, outbound.ErrEmptyFilename),
		errors.Is(err, directory.ErrEmptyKey):
		response.Error(c, err, nil)
	case errors.Is(err, directory.ErrNotWritable):
		c.JSON(http.StatusConflict, response.Resp{ErrorCode: http.StatusConflict, Message: err.Error()})
	case errors.Is(err, outbound.ErrTracker):
		c.JSON(http.StatusBadGateway, response.Resp{ErrorCode: http.StatusBadGateway, Message: outbound.ErrTracker.Error()})
	default:
		response.InternalError(c, err)
	}
}
