package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// xlsxMagic is the ZIP local-file header every XLSX container starts with.
var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// Parse reads a source export in either supported container format. The
// format is sniffed from the content, not the filename: XLSX is a ZIP
// archive, everything else is treated as CSV.
func Parse(data []byte) (*Table, error) {
	if bytes.HasPrefix(data, xlsxMagic) {
		return parseXLSX(data)
	}
	return parseCSV(data)
}

func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := New(header...)
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", t.Len()+2, err)
		}
		if len(row) == 0 {
			continue
		}
		t.Append(row)
	}
	return t, nil
}

func parseCSV(data []byte) (*Table, error) {
	// Analytics exports from the consoles are not always UTF-8; the French
	// ones in particular arrive as Windows-1252.
	if !utf8.Valid(data) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
		if err != nil {
			return nil, fmt.Errorf("decoding csv as windows-1252: %w", err)
		}
		data = decoded
	}
	// Strip a UTF-8 BOM if present.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	t := New(records[0]...)
	for _, row := range records[1:] {
		t.Append(row)
	}
	return t, nil
}
