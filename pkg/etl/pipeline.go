// Package etl implements the Extract, Transform, Load stages of the batch
// run. Stages are strictly sequential; the first error aborts the run and
// the next scheduled invocation starts over from Extraction.
package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/mapping"
)

type Pipeline struct {
	extractor   *Extractor
	transformer *Transformer
	loader      *Loader
	log         *slog.Logger
}

func NewPipeline(files shared.FileStore, sheets shared.SpreadsheetStore, log *slog.Logger) *Pipeline {
	return &Pipeline{
		extractor:   NewExtractor(files, log),
		transformer: NewTransformer(log),
		loader:      NewLoader(files, sheets, log),
		log:         log.With("component", "pipeline"),
	}
}

// Run executes Extract, Transform and Load in order and returns the merged
// row counts. backup additionally writes the Data Lake CSV snapshots.
func (p *Pipeline) Run(ctx context.Context, execDate time.Time, backup bool) (*Stats, error) {
	started := time.Now()
	p.log.Info("Pipeline started", "execution_date", execDate.Format("2006-01-02"), "backup", backup)

	p.log.Info("Stage 1/3: extraction")
	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	p.log.Info("Stage 2/3: transformation")
	merged, err := p.transformer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	stats := NewStats()
	for _, dt := range mapping.DataTypes {
		stats.Set(dt, merged[dt].Len())
	}

	p.log.Info("Stage 3/3: load")
	if err := p.loader.Load(ctx, merged, execDate, backup); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	p.log.Info("Pipeline completed", "stats", stats, "duration", time.Since(started).Round(time.Millisecond))
	return stats, nil
}
