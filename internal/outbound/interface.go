package outbound

import "context"

// UseCase writes to the tracker on behalf of the chat side. Every write is
// recorded in the echo cache first so the webhook it triggers is suppressed,
// and forgotten again when the write fails.
type UseCase interface {
	AddComment(ctx context.Context, input AddCommentInput) (AddCommentOutput, error)
	AttachFile(ctx context.Context, input AttachFileInput) (AttachFileOutput, error)
}

// EchoRecorder remembers content the bridge itself wrote.
type EchoRecorder interface {
	Record(issueKey, content string)
	RecordFile(issueKey, filename string)
	Forget(issueKey, content string)
	ForgetFile(issueKey, filename string)
}
