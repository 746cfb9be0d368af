// Package gsheets adapts the Sheets v4 API to the shared.SpreadsheetStore
// interface.
package gsheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

type Adapter struct {
	svc *sheets.Service
}

func NewAdapter(svc *sheets.Service) *Adapter {
	return &Adapter{svc: svc}
}

func (a *Adapter) ReadCell(ctx context.Context, spreadsheetID, worksheet, cell string) (string, error) {
	rng := fmt.Sprintf("'%s'!%s", worksheet, cell)
	res, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("reading cell %s: %w", rng, err)
	}
	if len(res.Values) == 0 || len(res.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(res.Values[0][0]), nil
}

func (a *Adapter) ReadRows(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	rng := fmt.Sprintf("'%s'", worksheet)
	res, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", worksheet, err)
	}

	rows := make([][]string, 0, len(res.Values))
	for _, row := range res.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (a *Adapter) WorksheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	res, err := a.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", spreadsheetID, err)
	}

	titles := make([]string, 0, len(res.Sheets))
	for _, s := range res.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

func (a *Adapter) EnsureWorksheet(ctx context.Context, spreadsheetID, title string) error {
	id, err := a.sheetID(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}
	if id >= 0 {
		return nil
	}

	_, err = a.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating worksheet %q: %w", title, err)
	}
	return nil
}

func (a *Adapter) CreateWorksheet(ctx context.Context, spreadsheetID, title string, rows, cols int64) error {
	_, err := a.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    rows,
							ColumnCount: cols,
						},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating worksheet %q: %w", title, err)
	}
	return nil
}

func (a *Adapter) DeleteWorksheet(ctx context.Context, spreadsheetID, title string) error {
	id, err := a.sheetID(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}
	if id < 0 {
		return nil
	}

	_, err = a.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{DeleteSheet: &sheets.DeleteSheetRequest{SheetId: id}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("deleting worksheet %q: %w", title, err)
	}
	return nil
}

func (a *Adapter) ClearWorksheet(ctx context.Context, spreadsheetID, title string) error {
	rng := fmt.Sprintf("'%s'", title)
	_, err := a.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clearing worksheet %q: %w", title, err)
	}
	return nil
}

func (a *Adapter) WriteRows(ctx context.Context, spreadsheetID, title string, values [][]interface{}) error {
	rng := fmt.Sprintf("'%s'!A1", title)
	_, err := a.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing worksheet %q: %w", title, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its sheet ID, or -1 when absent.
func (a *Adapter) sheetID(ctx context.Context, spreadsheetID, title string) (int64, error) {
	res, err := a.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).
		Do()
	if err != nil {
		return -1, fmt.Errorf("fetching spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, s := range res.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return -1, nil
}
