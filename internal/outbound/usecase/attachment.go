package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"jira-telegram-bridge/internal/outbound"
)

func (uc *implUseCase) AttachFile(ctx context.Context, input outbound.AttachFileInput) (outbound.AttachFileOutput, error) {
	key := strings.TrimSpace(input.IssueKey)
	if key == "" {
		return outbound.AttachFileOutput{}, outbound.ErrEmptyIssueKey
	}
	name := filepath.Base(strings.TrimSpace(input.Filename))
	if name == "" || name == "." || name == "/" {
		return outbound.AttachFileOutput{}, outbound.ErrEmptyFilename
	}
	if len(input.Data) == 0 {
		return outbound.AttachFileOutput{}, outbound.ErrEmptyFile
	}

	uc.echo.RecordFile(key, name)

	atts, err := uc.tracker.AddAttachment(ctx, key, name, input.Data)
	if err != nil {
		uc.echo.ForgetFile(key, name)
		return outbound.AttachFileOutput{}, fmt.Errorf("%w: %v", outbound.ErrTracker, err)
	}
	// Jira may rename on upload; remember the stored names too.
	for _, a := range atts {
		if a.Filename != "" && a.Filename != name {
			uc.echo.RecordFile(key, a.Filename)
		}
	}

	uc.l.Infof(ctx, "outbound: attached %s (%d bytes) to %s", name, len(input.Data), key)
	return outbound.AttachFileOutput{Attachments: atts}, nil
}
