package etl

import (
	"fmt"
	"log/slog"

	"github.com/appaso/pipeline/pkg/mapping"
	"github.com/appaso/pipeline/pkg/table"
)

// appleUsersMetadataRows is the fixed number of metadata rows the App Store
// Connect users export carries between the header and the first data row.
const appleUsersMetadataRows = 4

// Transformer reconciles the raw platform tables into one canonical merged
// table per data type. Any malformed date or missing expected column aborts
// the whole run; there is no row-level recovery.
type Transformer struct {
	log *slog.Logger
}

func NewTransformer(log *slog.Logger) *Transformer {
	return &Transformer{log: log.With("component", "transform")}
}

// Transform produces the merged canonical table for every data type. Rows
// keep their source order: all Apple rows, then all Google rows.
func (t *Transformer) Transform(raw map[mapping.DataType][]*RawTable) (map[mapping.DataType]*table.Table, error) {
	out := make(map[mapping.DataType]*table.Table, len(raw))

	for _, dt := range mapping.DataTypes {
		merged := table.New(mapping.StandardColumns(dt)...)

		for _, rt := range raw[dt] {
			if err := t.appendCanonical(merged, rt); err != nil {
				return nil, err
			}
		}

		t.log.Info("Merged data type", "data_type", dt, "rows", merged.Len())
		out[dt] = merged
	}
	return out, nil
}

// appendCanonical renames, normalizes and stage-labels one raw table, then
// appends its rows to the merged table.
func (t *Transformer) appendCanonical(merged *table.Table, rt *RawTable) error {
	tbl := rt.Table

	// Column positions for each canonical column this source supplies. Every
	// mapped source column must be present.
	renames := mapping.RenameMap(rt.DataType, rt.Platform)
	srcIndex := make(map[string]int, len(renames))
	for src, canonical := range renames {
		idx := tbl.ColumnIndex(src)
		if idx < 0 {
			return fmt.Errorf("%s: missing expected column %q", rt.Filename, src)
		}
		srcIndex[canonical] = idx
	}

	start := 0
	if rt.DataType == mapping.Users && rt.Platform == mapping.Apple {
		start = appleUsersMetadataRows
		if start > tbl.Len() {
			start = tbl.Len()
		}
	}

	dateIdx := srcIndex["Date"]
	for i := start; i < tbl.Len(); i++ {
		if emptyRow(tbl.Rows[i]) {
			continue
		}

		date, err := ParseDate(tbl.Cell(i, dateIdx))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", rt.Filename, i+2, err)
		}

		row := make([]string, len(merged.Columns))
		for c, canonical := range merged.Columns {
			switch canonical {
			case "Date":
				row[c] = date.Format(DateLayout)
			case "Platform":
				row[c] = string(rt.Platform)
			case "Stage":
				row[c] = StageFor(date)
			default:
				if idx, ok := srcIndex[canonical]; ok {
					row[c] = tbl.Cell(i, idx)
				}
			}
		}
		merged.Append(row)
	}
	return nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
