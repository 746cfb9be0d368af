// Package controlpanel reads the run-control flags from the shared
// 00_Control_Panel spreadsheet. The cells are external mutable state, so they
// are read exactly once per run into an immutable Flags snapshot.
package controlpanel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
)

// Flags is the control-panel state as of the start of the run.
type Flags struct {
	// PipelineEnabled gates the whole run (cell B3). It has no env override.
	PipelineEnabled bool
	// BackupEnabled gates the Data Lake CSV backups (cell B4, BACKUP_ENABLED).
	BackupEnabled bool
	// AlertsEnabled gates the notification emails (cell B5, ALERTS_ENABLED).
	AlertsEnabled bool
	// ForecastEnabled gates the installs forecast job (cell B6, ML_ENABLED).
	ForecastEnabled bool
}

type Panel struct {
	files  shared.FileStore
	sheets shared.SpreadsheetStore
	cfg    *config.Settings
	log    *slog.Logger
}

func New(files shared.FileStore, sheets shared.SpreadsheetStore, cfg *config.Settings, log *slog.Logger) *Panel {
	return &Panel{files: files, sheets: sheets, cfg: cfg, log: log.With("component", "control-panel")}
}

// Snapshot reads all control cells once and applies the env overrides.
// Overrides win over cells only when explicitly set.
func (p *Panel) Snapshot(ctx context.Context) (Flags, error) {
	panelID, err := p.files.FindFile(ctx, config.ControlPanelName, "")
	if err != nil {
		return Flags{}, fmt.Errorf("locating control panel: %w", err)
	}
	if panelID == "" {
		return Flags{}, fmt.Errorf("control panel %q not found", config.ControlPanelName)
	}

	cells := map[string]*bool{
		config.CellPipelineEnabled: nil,
		config.CellBackupEnabled:   nil,
		config.CellAlertsEnabled:   nil,
		config.CellForecastEnabled: nil,
	}
	for cell := range cells {
		value, err := p.sheets.ReadCell(ctx, panelID, config.ControlSheetName, cell)
		if err != nil {
			return Flags{}, fmt.Errorf("reading control cell %s: %w", cell, err)
		}
		enabled := Enabled(value)
		cells[cell] = &enabled
	}

	flags := Flags{
		PipelineEnabled: *cells[config.CellPipelineEnabled],
		BackupEnabled:   resolve(*cells[config.CellBackupEnabled], p.cfg.BackupOverride),
		AlertsEnabled:   resolve(*cells[config.CellAlertsEnabled], p.cfg.AlertsOverride),
		ForecastEnabled: resolve(*cells[config.CellForecastEnabled], p.cfg.ForecastOverride),
	}

	p.log.Info("Control panel snapshot",
		"pipeline", flags.PipelineEnabled,
		"backup", flags.BackupEnabled,
		"alerts", flags.AlertsEnabled,
		"forecast", flags.ForecastEnabled,
	)
	return flags, nil
}

// Enabled interprets a control cell value. Only "ON" and "TRUE" enable,
// case-insensitively; anything else disables.
func Enabled(value string) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	return v == "ON" || v == "TRUE"
}

func resolve(cell bool, override *bool) bool {
	if override != nil {
		return *override
	}
	return cell
}
