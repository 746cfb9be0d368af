package shared

import "context"

// --- File Store Interfaces ---

// FileStore abstracts Google Drive access. Lookup methods return an empty ID
// when nothing matches; callers decide whether that is fatal.
type FileStore interface {
	// ListFolder returns name -> file ID for every non-trashed file in a folder.
	ListFolder(ctx context.Context, folderID string) (map[string]string, error)
	// FindFile looks up a file by exact name, optionally scoped to a parent folder.
	FindFile(ctx context.Context, name, parentID string) (string, error)
	// FindFolder looks up a folder by exact name, optionally scoped to a parent folder.
	FindFolder(ctx context.Context, name, parentID string) (string, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	// UploadCSV creates name in the folder, or replaces its content if a file
	// with that name already exists there.
	UploadCSV(ctx context.Context, folderID, name string, data []byte) error
}

// --- Spreadsheet Interfaces ---

// SpreadsheetStore abstracts Google Sheets access. Worksheets are addressed
// by title within a spreadsheet.
type SpreadsheetStore interface {
	ReadCell(ctx context.Context, spreadsheetID, worksheet, cell string) (string, error)
	ReadRows(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error)
	WorksheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	// EnsureWorksheet creates the worksheet if it does not exist.
	EnsureWorksheet(ctx context.Context, spreadsheetID, title string) error
	// CreateWorksheet creates a worksheet sized to the given grid.
	CreateWorksheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) error
	DeleteWorksheet(ctx context.Context, spreadsheetID, title string) error
	ClearWorksheet(ctx context.Context, spreadsheetID, title string) error
	// WriteRows writes values starting at A1.
	WriteRows(ctx context.Context, spreadsheetID, title string, values [][]interface{}) error
}

// --- Notification Interfaces ---

type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}
