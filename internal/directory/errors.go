package directory

import "errors"

var (
	ErrNoTarget    = errors.New("directory: no chat target for issue")
	ErrEmptyKey    = errors.New("directory: key is required")
	ErrNotWritable = errors.New("directory: static directory is read-only")
)
