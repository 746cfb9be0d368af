// Command forecast runs the companion installs-forecast job: it trains one
// linear model per platform on recent INSTALLS history and publishes the
// FORECAST worksheet. Gated by the control panel's ML flag (ML_ENABLED
// overrides the cell).
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/appaso/pipeline/pkg/bootstrap"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/controlpanel"
	"github.com/appaso/pipeline/pkg/forecast"
	"github.com/appaso/pipeline/pkg/infrastructure/sentry"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	runID := uuid.NewString()
	logger := bootstrap.NewLogger("installs-forecast").With("run_id", runID)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to resolve settings", "error", err)
		return 1
	}

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		ServerName:  "installs-forecast",
	}, logger); err != nil {
		logger.Error("Sentry init failed", "error", err)
		return 1
	}
	defer sentry.Flush(2 * time.Second)

	svc, err := bootstrap.NewService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Authentication failed", "error", err)
		sentry.CaptureException(err, map[string]interface{}{"context": "authentication"}, nil)
		return 1
	}

	flags, err := controlpanel.New(svc.Files, svc.Sheets, cfg, logger).Snapshot(ctx)
	if err != nil {
		logger.Error("Control check failed", "error", err)
		sentry.CaptureException(err, map[string]interface{}{"context": "control check"}, nil)
		return 1
	}

	if !flags.ForecastEnabled {
		logger.Info("Forecast is DISABLED - execution stopped",
			"control_cell", config.CellForecastEnabled,
			"outcome", "disabled",
		)
		return 0
	}

	if err := forecast.New(svc.Files, svc.Sheets, logger).Run(ctx, cfg.ExecutionDate); err != nil {
		logger.Error("Forecast failed", "error", err)
		sentry.CaptureException(err, map[string]interface{}{"context": "forecast"}, nil)
		return 1
	}

	logger.Info("Forecast completed successfully")
	return 0
}
