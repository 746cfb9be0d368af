package etl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/mapping"
	"github.com/appaso/pipeline/pkg/table"
)

// RawTable is one source export as extracted, before any renaming.
type RawTable struct {
	DataType mapping.DataType
	Platform mapping.Platform
	Filename string
	Table    *table.Table
}

// Extractor downloads the six source exports from the RAW folder and parses
// them into raw tables grouped by data type.
type Extractor struct {
	files shared.FileStore
	log   *slog.Logger
}

func NewExtractor(files shared.FileStore, log *slog.Logger) *Extractor {
	return &Extractor{files: files, log: log.With("component", "extract")}
}

// Extract fetches all six exports. Platform order within each data type is
// Apple then Google; the merge relies on it.
func (e *Extractor) Extract(ctx context.Context) (map[mapping.DataType][]*RawTable, error) {
	listing, err := e.files.ListFolder(ctx, config.RawDataFolderID)
	if err != nil {
		return nil, fmt.Errorf("listing RAW folder: %w", err)
	}
	e.log.Info("Listed RAW folder", "files", len(listing))

	// Deterministic match order when several names share a pattern.
	names := make([]string, 0, len(listing))
	for name := range listing {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[mapping.DataType][]*RawTable, len(mapping.DataTypes))
	for _, dt := range mapping.DataTypes {
		for _, platform := range mapping.Platforms {
			rt, err := e.extractOne(ctx, listing, names, dt, platform)
			if err != nil {
				return nil, err
			}
			out[dt] = append(out[dt], rt)
		}
	}
	return out, nil
}

func (e *Extractor) extractOne(ctx context.Context, listing map[string]string, names []string, dt mapping.DataType, platform mapping.Platform) (*RawTable, error) {
	pattern := mapping.Pattern(dt, platform)

	var filename string
	for _, name := range names {
		if strings.Contains(name, pattern) {
			filename = name
			break
		}
	}
	if filename == "" {
		return nil, fmt.Errorf("file not found in RAW folder: %q", pattern)
	}

	e.log.Info("Downloading source file", "file", filename, "data_type", dt, "platform", platform)
	data, err := e.files.Download(ctx, listing[filename])
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", filename, err)
	}

	tbl, err := table.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", filename, err)
	}
	e.log.Info("Parsed source file", "file", filename, "rows", tbl.Len())

	return &RawTable{
		DataType: dt,
		Platform: platform,
		Filename: filename,
		Table:    tbl,
	}, nil
}
