// Package table holds the in-memory tabular representation of a source
// export: an ordered header plus string-valued rows.
package table

// Table is rows of cells under an ordered header. Cell values stay strings
// until the transform stage interprets them.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates a table with the given header and no rows.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is shorter than
// the header. Source exports routinely omit trailing empty cells.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Append adds a row.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
