// Package mocks provides func-field test doubles for the shared interfaces.
// Unset funcs fall back to benign defaults so tests only wire what they
// assert on.
package mocks

import (
	"context"
)

// --- Mock File Store ---

type MockFileStore struct {
	ListFolderFunc func(ctx context.Context, folderID string) (map[string]string, error)
	FindFileFunc   func(ctx context.Context, name, parentID string) (string, error)
	FindFolderFunc func(ctx context.Context, name, parentID string) (string, error)
	DownloadFunc   func(ctx context.Context, fileID string) ([]byte, error)
	UploadCSVFunc  func(ctx context.Context, folderID, name string, data []byte) error
}

func (m *MockFileStore) ListFolder(ctx context.Context, folderID string) (map[string]string, error) {
	if m.ListFolderFunc != nil {
		return m.ListFolderFunc(ctx, folderID)
	}
	return map[string]string{}, nil
}

func (m *MockFileStore) FindFile(ctx context.Context, name, parentID string) (string, error) {
	if m.FindFileFunc != nil {
		return m.FindFileFunc(ctx, name, parentID)
	}
	return "file-id", nil
}

func (m *MockFileStore) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	if m.FindFolderFunc != nil {
		return m.FindFolderFunc(ctx, name, parentID)
	}
	return "folder-id", nil
}

func (m *MockFileStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, fileID)
	}
	return nil, nil
}

func (m *MockFileStore) UploadCSV(ctx context.Context, folderID, name string, data []byte) error {
	if m.UploadCSVFunc != nil {
		return m.UploadCSVFunc(ctx, folderID, name, data)
	}
	return nil
}

// --- Mock Spreadsheet Store ---

type MockSpreadsheetStore struct {
	ReadCellFunc        func(ctx context.Context, spreadsheetID, worksheet, cell string) (string, error)
	ReadRowsFunc        func(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error)
	WorksheetTitlesFunc func(ctx context.Context, spreadsheetID string) ([]string, error)
	EnsureWorksheetFunc func(ctx context.Context, spreadsheetID, title string) error
	CreateWorksheetFunc func(ctx context.Context, spreadsheetID, title string, rows, cols int64) error
	DeleteWorksheetFunc func(ctx context.Context, spreadsheetID, title string) error
	ClearWorksheetFunc  func(ctx context.Context, spreadsheetID, title string) error
	WriteRowsFunc       func(ctx context.Context, spreadsheetID, title string, values [][]interface{}) error
}

func (m *MockSpreadsheetStore) ReadCell(ctx context.Context, spreadsheetID, worksheet, cell string) (string, error) {
	if m.ReadCellFunc != nil {
		return m.ReadCellFunc(ctx, spreadsheetID, worksheet, cell)
	}
	return "", nil
}

func (m *MockSpreadsheetStore) ReadRows(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	if m.ReadRowsFunc != nil {
		return m.ReadRowsFunc(ctx, spreadsheetID, worksheet)
	}
	return nil, nil
}

func (m *MockSpreadsheetStore) WorksheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	if m.WorksheetTitlesFunc != nil {
		return m.WorksheetTitlesFunc(ctx, spreadsheetID)
	}
	return nil, nil
}

func (m *MockSpreadsheetStore) EnsureWorksheet(ctx context.Context, spreadsheetID, title string) error {
	if m.EnsureWorksheetFunc != nil {
		return m.EnsureWorksheetFunc(ctx, spreadsheetID, title)
	}
	return nil
}

func (m *MockSpreadsheetStore) CreateWorksheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) error {
	if m.CreateWorksheetFunc != nil {
		return m.CreateWorksheetFunc(ctx, spreadsheetID, title, rows, cols)
	}
	return nil
}

func (m *MockSpreadsheetStore) DeleteWorksheet(ctx context.Context, spreadsheetID, title string) error {
	if m.DeleteWorksheetFunc != nil {
		return m.DeleteWorksheetFunc(ctx, spreadsheetID, title)
	}
	return nil
}

func (m *MockSpreadsheetStore) ClearWorksheet(ctx context.Context, spreadsheetID, title string) error {
	if m.ClearWorksheetFunc != nil {
		return m.ClearWorksheetFunc(ctx, spreadsheetID, title)
	}
	return nil
}

func (m *MockSpreadsheetStore) WriteRows(ctx context.Context, spreadsheetID, title string, values [][]interface{}) error {
	if m.WriteRowsFunc != nil {
		return m.WriteRowsFunc(ctx, spreadsheetID, title, values)
	}
	return nil
}

// --- Mock Mailer ---

type MockMailer struct {
	SendFunc func(ctx context.Context, subject, body string) error
	Sent     []SentMail
}

type SentMail struct {
	Subject string
	Body    string
}

func (m *MockMailer) Send(ctx context.Context, subject, body string) error {
	m.Sent = append(m.Sent, SentMail{Subject: subject, Body: body})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, subject, body)
	}
	return nil
}
