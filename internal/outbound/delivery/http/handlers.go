package http

import (
	"github.com/gin-gonic/gin"

	"jira-telegram-bridge/pkg/response"
)

// AddComment godoc
// @Summary     Post a comment to an issue
// @Description Posts the text as a Jira comment. The resulting webhook is not forwarded back to chat.
// @Tags        Internal
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string        true "Internal API key"
// @Param       key       path   string        true "Issue key"
// @Param       body      body   addCommentReq true "Comment"
// @Success     200 {object} addCommentResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     502 {object} response.Resp "Tracker unavailable"
// @Router      /api/v1/issues/{key}/comments [POST]
func (h *handler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processAddCommentReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.AddComment(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "outbound.http: uc.AddComment: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newAddCommentResp(output))
}

// AttachFile godoc
// @Summary     Upload a file to an issue
// @Description Uploads the multipart "file" field as a Jira attachment. The resulting webhook is not forwarded back to chat.
// @Tags        Internal
// @Accept      multipart/form-data
// @Produce     json
// @Param       X-API-Key header   string true  "Internal API key"
// @Param       key       path     string true  "Issue key"
// @Param       file      formData file   true  "File"
// @Param       filename  formData string false "Override file name"
// @Success     200 {object} attachFileResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     502 {object} response.Resp "Tracker unavailable"
// @Router      /api/v1/issues/{key}/attachments [POST]
func (h *handler) AttachFile(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processAttachFileReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.AttachFile(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "outbound.http: uc.AttachFile: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newAttachFileResp(output))
}

// RegisterTarget godoc
// @Summary     Route an issue or project to a chat
// @Description Adds a directory row mapping the issue key (or project key) to a chat target.
// @Tags        Internal
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string            true "Internal API key"
// @Param       key       path   string            true "Issue or project key"
// @Param       body      body   registerTargetReq true "Target"
// @Success     200 {object} registerTargetResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Directory is read-only"
// @Router      /api/v1/issues/{key}/target [PUT]
func (h *handler) RegisterTarget(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRegisterTargetReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.directory.Register(ctx, req.Key, req.Target); err != nil {
		h.l.Errorf(ctx, "outbound.http: directory.Register: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, registerTargetResp{Key: req.Key, Target: req.Target})
}
