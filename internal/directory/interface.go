package directory

import (
	"context"

	"jira-telegram-bridge/pkg/gsheets"
)

// Resolver maps an issue key to the chat target its activity goes to.
type Resolver interface {
	ResolveTarget(ctx context.Context, issueKey string) (string, error)
	Register(ctx context.Context, key, target string) error
}

// SheetStore is the spreadsheet surface the directory needs.
type SheetStore interface {
	ReadRows(ctx context.Context, spreadsheetID, readRange string) ([]gsheets.Row, error)
	AppendRow(ctx context.Context, spreadsheetID, appendRange string, cells ...string) error
}
