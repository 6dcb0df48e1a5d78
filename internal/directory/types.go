package directory

import "time"

const (
	DefaultSheetRange = "Directory!A:B"
	DefaultCacheTTL   = time.Minute
)

// Config for the spreadsheet-backed directory. Column A holds an issue key
// (OPS-12) or a project key (OPS), column B the chat target.
type Config struct {
	SpreadsheetID string
	SheetRange    string
	DefaultTarget string
	CacheTTL      time.Duration
}
