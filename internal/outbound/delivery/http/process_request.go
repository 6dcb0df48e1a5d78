package http

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errMissingKey  = errors.New("issue key is required")
	errMissingFile = errors.New("multipart field \"file\" is required")
	errTooLarge    = fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
)

func (h *handler) processAddCommentReq(c *gin.Context) (addCommentReq, error) {
	var req addCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.IssueKey = strings.TrimSpace(c.Param("key"))
	if req.IssueKey == "" {
		return req, errMissingKey
	}
	return req, nil
}

func (h *handler) processAttachFileReq(c *gin.Context) (attachFileReq, error) {
	req := attachFileReq{IssueKey: strings.TrimSpace(c.Param("key"))}
	if req.IssueKey == "" {
		return req, errMissingKey
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return req, errMissingFile
	}
	if fh.Size > maxUploadBytes {
		return req, errTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return req, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return req, err
	}
	if len(data) > maxUploadBytes {
		return req, errTooLarge
	}

	req.Filename = fh.Filename
	if name := c.PostForm("filename"); name != "" {
		req.Filename = name
	}
	req.Data = data
	return req, nil
}

func (h *handler) processRegisterTargetReq(c *gin.Context) (registerTargetReq, error) {
	var req registerTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.Key = strings.TrimSpace(c.Param("key"))
	if req.Key == "" {
		return req, errMissingKey
	}
	return req, nil
}
