package chat

import "errors"

var ErrEmptyFile = errors.New("chat: file has no content")

// File is an attachment ready to be sent.
type File struct {
	Name     string
	Data     []byte
	MimeType string
	IssueKey string // used as the caption
}
