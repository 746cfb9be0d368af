package etl

import (
	"log/slog"

	"github.com/appaso/pipeline/pkg/mapping"
)

// Stats tracks per-data-type row counts for reporting.
type Stats struct {
	counts map[mapping.DataType]int
}

func NewStats() *Stats {
	return &Stats{counts: make(map[mapping.DataType]int, len(mapping.DataTypes))}
}

// Set records the merged row count for a data type.
func (s *Stats) Set(dt mapping.DataType, rows int) {
	s.counts[dt] = rows
}

// Rows returns the merged row count for a data type.
func (s *Stats) Rows(dt mapping.DataType) int {
	return s.counts[dt]
}

// Total returns the row count across all data types.
func (s *Stats) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(mapping.DataTypes))
	for _, dt := range mapping.DataTypes {
		attrs = append(attrs, slog.Int(string(dt), s.counts[dt]))
	}
	return slog.GroupValue(attrs...)
}
