package controlpanel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/testing/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnabled(t *testing.T) {
	cases := map[string]bool{
		"ON":    true,
		"on":    true,
		" On ":  true,
		"TRUE":  true,
		"true":  true,
		"OFF":   false,
		"FALSE": false,
		"1":     false,
		"yes":   false,
		"":      false,
		"O N":   false,
	}
	for in, want := range cases {
		if got := Enabled(in); got != want {
			t.Errorf("Enabled(%q) = %v, want %v", in, got, want)
		}
	}
}

func panelSheets(cells map[string]string) *mocks.MockSpreadsheetStore {
	return &mocks.MockSpreadsheetStore{
		ReadCellFunc: func(ctx context.Context, id, worksheet, cell string) (string, error) {
			if worksheet != config.ControlSheetName {
				return "", fmt.Errorf("unexpected worksheet %q", worksheet)
			}
			return cells[cell], nil
		},
	}
}

func TestSnapshotReadsCells(t *testing.T) {
	sheets := panelSheets(map[string]string{
		config.CellPipelineEnabled: "ON",
		config.CellBackupEnabled:   "OFF",
		config.CellAlertsEnabled:   "TRUE",
		config.CellForecastEnabled: "",
	})

	flags, err := New(&mocks.MockFileStore{}, sheets, &config.Settings{}, testLogger()).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if !flags.PipelineEnabled {
		t.Error("pipeline should be enabled")
	}
	if flags.BackupEnabled {
		t.Error("backup should be disabled")
	}
	if !flags.AlertsEnabled {
		t.Error("alerts should be enabled")
	}
	if flags.ForecastEnabled {
		t.Error("forecast should be disabled")
	}
}

// A set env override beats the cell; an unset one leaves the cell in charge.
func TestSnapshotEnvOverrides(t *testing.T) {
	sheets := panelSheets(map[string]string{
		config.CellPipelineEnabled: "ON",
		config.CellBackupEnabled:   "ON",
		config.CellAlertsEnabled:   "OFF",
		config.CellForecastEnabled: "OFF",
	})

	off, on := false, true
	cfg := &config.Settings{
		BackupOverride: &off,
		AlertsOverride: &on,
		// ForecastOverride left nil: the cell applies.
	}

	flags, err := New(&mocks.MockFileStore{}, sheets, cfg, testLogger()).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if flags.BackupEnabled {
		t.Error("BACKUP_ENABLED=false must override the ON cell")
	}
	if !flags.AlertsEnabled {
		t.Error("ALERTS_ENABLED=true must override the OFF cell")
	}
	if flags.ForecastEnabled {
		t.Error("nil override must leave the OFF cell in charge")
	}
	if !flags.PipelineEnabled {
		t.Error("the pipeline gate has no override and must follow the cell")
	}
}

func TestSnapshotPanelMissing(t *testing.T) {
	files := &mocks.MockFileStore{
		FindFileFunc: func(ctx context.Context, name, parentID string) (string, error) {
			return "", nil
		},
	}

	_, err := New(files, &mocks.MockSpreadsheetStore{}, &config.Settings{}, testLogger()).Snapshot(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not-found error", err)
	}
}

func TestSnapshotReadError(t *testing.T) {
	sheets := &mocks.MockSpreadsheetStore{
		ReadCellFunc: func(ctx context.Context, id, worksheet, cell string) (string, error) {
			return "", fmt.Errorf("boom")
		},
	}

	_, err := New(&mocks.MockFileStore{}, sheets, &config.Settings{}, testLogger()).Snapshot(context.Background())
	if err == nil || !strings.Contains(err.Error(), "reading control cell") {
		t.Fatalf("err = %v, want read error", err)
	}
}
