package http

import (
	"jira-telegram-bridge/internal/outbound"
	"jira-telegram-bridge/pkg/response"
)

// --- Request DTOs ---

type addCommentReq struct {
	IssueKey string `json:"-"`
	Text     string `json:"text" binding:"required"`
}

func (r addCommentReq) toInput() outbound.AddCommentInput {
	return outbound.AddCommentInput{
		IssueKey: r.IssueKey,
		Text:     r.Text,
	}
}

type attachFileReq struct {
	IssueKey string
	Filename string
	Data     []byte
}

func (r attachFileReq) toInput() outbound.AttachFileInput {
	return outbound.AttachFileInput{
		IssueKey: r.IssueKey,
		Filename: r.Filename,
		Data:     r.Data,
	}
}

type registerTargetReq struct {
	Key    string `json:"-"`
	Target string `json:"target" binding:"required"`
}

// --- Response DTOs ---

type addCommentResp struct {
	CommentID string `json:"comment_id"`
}

func (h *handler) newAddCommentResp(out outbound.AddCommentOutput) addCommentResp {
	return addCommentResp{CommentID: out.CommentID}
}

type attachmentResp struct {
	ID        string            `json:"id"`
	Filename  string            `json:"filename"`
	MimeType  string            `json:"mime_type,omitempty"`
	CreatedAt response.DateTime `json:"created_at"`
}

type attachFileResp struct {
	Attachments []attachmentResp `json:"attachments"`
}

func (h *handler) newAttachFileResp(out outbound.AttachFileOutput) attachFileResp {
	items := make([]attachmentResp, len(out.Attachments))
	for i, a := range out.Attachments {
		items[i] = attachmentResp{
			ID:        a.ID,
			Filename:  a.Filename,
			MimeType:  a.MimeType,
			CreatedAt: response.DateTime(a.Created),
		}
	}
	return attachFileResp{Attachments: items}
}

type registerTargetResp struct {
	Key    string `json:"key"`
	Target string `json:"target"`
}
