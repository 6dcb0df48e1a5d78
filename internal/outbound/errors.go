package outbound

import "errors"

var (
	ErrEmptyIssueKey = errors.New("issue key is required")
	ErrEmptyText     = errors.New("comment text is required")
	ErrEmptyFile     = errors.New("file is empty")
	ErrEmptyFilename = errors.New("filename is required")
	ErrTracker       = errors.New("tracker request failed")
)
