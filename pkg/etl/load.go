package etl

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/mapping"
	"github.com/appaso/pipeline/pkg/table"
)

// destinationSheets maps each data type to its worksheet in MASTER_DATA_CLEAN.
var destinationSheets = map[mapping.DataType]string{
	mapping.Keywords: config.KeywordsSheet,
	mapping.Installs: config.InstallsSheet,
	mapping.Users:    config.UsersSheet,
}

// Loader writes the merged tables to the destination spreadsheet, the dated
// archive worksheets, and optionally the Data Lake CSV backups.
type Loader struct {
	files  shared.FileStore
	sheets shared.SpreadsheetStore
	log    *slog.Logger
}

func NewLoader(files shared.FileStore, sheets shared.SpreadsheetStore, log *slog.Logger) *Loader {
	return &Loader{files: files, sheets: sheets, log: log.With("component", "load")}
}

// ArchiveTitle is the archive worksheet name for one day and data type.
func ArchiveTitle(execDate time.Time, dt mapping.DataType) string {
	return execDate.Format("20060102") + "_" + string(dt)
}

// Load runs both write paths for every data type. Archive worksheets are
// keyed by (date, data type): re-running on the same calendar date replaces
// only that day's entries.
func (l *Loader) Load(ctx context.Context, merged map[mapping.DataType]*table.Table, execDate time.Time, backup bool) error {
	masterID, err := l.spreadsheetID(ctx, config.MasterDataSheet)
	if err != nil {
		return err
	}
	archiveID, err := l.spreadsheetID(ctx, config.ArchiveDataSheet)
	if err != nil {
		return err
	}

	for _, dt := range mapping.DataTypes {
		tbl := merged[dt]
		if tbl == nil {
			return fmt.Errorf("no merged table for %s", dt)
		}

		if err := l.writeDestination(ctx, masterID, dt, tbl); err != nil {
			return err
		}
		if err := l.writeArchive(ctx, archiveID, dt, tbl, execDate); err != nil {
			return err
		}
		if backup {
			if err := l.writeDataLake(ctx, dt, tbl, execDate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) spreadsheetID(ctx context.Context, name string) (string, error) {
	id, err := l.files.FindFile(ctx, name, "")
	if err != nil {
		return "", fmt.Errorf("locating spreadsheet %q: %w", name, err)
	}
	if id == "" {
		return "", fmt.Errorf("spreadsheet %q not found", name)
	}
	return id, nil
}

// writeDestination overwrites the current worksheet for one data type.
func (l *Loader) writeDestination(ctx context.Context, masterID string, dt mapping.DataType, tbl *table.Table) error {
	title := destinationSheets[dt]

	if err := l.sheets.EnsureWorksheet(ctx, masterID, title); err != nil {
		return fmt.Errorf("destination %s: %w", title, err)
	}
	if err := l.sheets.ClearWorksheet(ctx, masterID, title); err != nil {
		return fmt.Errorf("destination %s: %w", title, err)
	}
	if err := l.sheets.WriteRows(ctx, masterID, title, sheetValues(tbl)); err != nil {
		return fmt.Errorf("destination %s: %w", title, err)
	}

	l.log.Info("Updated destination worksheet", "worksheet", title, "rows", tbl.Len())
	return nil
}

// writeArchive replaces the dated snapshot worksheet for one data type.
func (l *Loader) writeArchive(ctx context.Context, archiveID string, dt mapping.DataType, tbl *table.Table, execDate time.Time) error {
	title := ArchiveTitle(execDate, dt)

	titles, err := l.sheets.WorksheetTitles(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("archive %s: %w", title, err)
	}
	for _, existing := range titles {
		if existing == title {
			if err := l.sheets.DeleteWorksheet(ctx, archiveID, title); err != nil {
				return fmt.Errorf("archive %s: %w", title, err)
			}
			break
		}
	}

	rows := int64(tbl.Len() + 1)
	cols := int64(len(tbl.Columns))
	if err := l.sheets.CreateWorksheet(ctx, archiveID, title, rows, cols); err != nil {
		return fmt.Errorf("archive %s: %w", title, err)
	}
	if err := l.sheets.WriteRows(ctx, archiveID, title, sheetValues(tbl)); err != nil {
		return fmt.Errorf("archive %s: %w", title, err)
	}

	l.log.Info("Wrote archive worksheet", "worksheet", title, "rows", tbl.Len())
	return nil
}

// writeDataLake uploads the CSV backup into the Data Lake folder hierarchy
// (<lake>/<year>/<NN_Month>/<datatype>_<YYYYMMDD>.csv). The folders are
// provisioned externally; a missing one is a configuration error.
func (l *Loader) writeDataLake(ctx context.Context, dt mapping.DataType, tbl *table.Table, execDate time.Time) error {
	lakeID, err := l.files.FindFolder(ctx, config.DataLakeFolder, "")
	if err != nil {
		return fmt.Errorf("data lake: %w", err)
	}
	if lakeID == "" {
		return fmt.Errorf("folder %q not found", config.DataLakeFolder)
	}

	year := strconv.Itoa(execDate.Year())
	yearID, err := l.files.FindFolder(ctx, year, lakeID)
	if err != nil {
		return fmt.Errorf("data lake: %w", err)
	}
	if yearID == "" {
		return fmt.Errorf("year folder %q not found in Data Lake", year)
	}

	month := config.MonthFolders[execDate.Month()]
	monthID, err := l.files.FindFolder(ctx, month, yearID)
	if err != nil {
		return fmt.Errorf("data lake: %w", err)
	}
	if monthID == "" {
		return fmt.Errorf("month folder %q not found in year %q", month, year)
	}

	data, err := csvBytes(tbl)
	if err != nil {
		return fmt.Errorf("data lake %s: %w", dt, err)
	}

	filename := fmt.Sprintf("%s_%s.csv", dt, execDate.Format("20060102"))
	if err := l.files.UploadCSV(ctx, monthID, filename, data); err != nil {
		return fmt.Errorf("data lake %s: %w", filename, err)
	}

	l.log.Info("Saved Data Lake backup", "file", filename, "rows", tbl.Len())
	return nil
}

// sheetValues renders header plus sanitized rows for the Sheets API.
func sheetValues(tbl *table.Table) [][]interface{} {
	values := make([][]interface{}, 0, tbl.Len()+1)

	header := make([]interface{}, len(tbl.Columns))
	for i, c := range tbl.Columns {
		header[i] = c
	}
	values = append(values, header)

	for i := range tbl.Rows {
		row := make([]interface{}, len(tbl.Columns))
		for c := range tbl.Columns {
			row[c] = sanitizeValue(tbl.Cell(i, c))
		}
		values = append(values, row)
	}
	return values
}

// sanitizeValue blanks values a spreadsheet cell cannot represent: NaN and
// infinite numerics become empty strings.
func sanitizeValue(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "nan", "+inf", "-inf", "inf", "infinity", "-infinity":
		return ""
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
	}
	return v
}

func csvBytes(tbl *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(tbl.Columns); err != nil {
		return nil, err
	}
	for i := range tbl.Rows {
		row := make([]string, len(tbl.Columns))
		for c := range tbl.Columns {
			row[c] = sanitizeValue(tbl.Cell(i, c))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
