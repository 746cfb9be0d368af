// Command etl runs one scheduled execution of the AppASO data pipeline:
// authenticate, snapshot the control panel, run Extract/Transform/Load, and
// send the run notification. Exit code 0 covers both success and a graceful
// control-panel disable; any unhandled error exits 1.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/appaso/pipeline/pkg/bootstrap"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/controlpanel"
	"github.com/appaso/pipeline/pkg/etl"
	"github.com/appaso/pipeline/pkg/infrastructure/email"
	"github.com/appaso/pipeline/pkg/infrastructure/sentry"
	"github.com/appaso/pipeline/pkg/notify"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	runID := uuid.NewString()
	logger := bootstrap.NewLogger("etl-pipeline").With("run_id", runID)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to resolve settings", "error", err)
		return 1
	}
	execDate := cfg.ExecutionDate

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		ServerName:  "etl-pipeline",
	}, logger); err != nil {
		logger.Error("Sentry init failed", "error", err)
		return 1
	}
	defer sentry.Flush(2 * time.Second)

	logger.Info("Execution started", "execution_date", execDate.Format("2006-01-02"))

	// The mailer needs only SMTP settings, so failure alerts work even when
	// Google auth is down. Alerts stay enabled until the control panel says
	// otherwise.
	notifier := notify.New(email.NewSMTPMailer(cfg), cfg, true, logger)

	svc, err := bootstrap.NewService(ctx, cfg, logger)
	if err != nil {
		return fail(ctx, notifier, err, "authentication", execDate, runID, logger)
	}

	flags, err := controlpanel.New(svc.Files, svc.Sheets, cfg, logger).Snapshot(ctx)
	if err != nil {
		return fail(ctx, notifier, err, "control check", execDate, runID, logger)
	}

	if !flags.PipelineEnabled {
		logger.Info("Pipeline is DISABLED - execution stopped",
			"control_cell", config.CellPipelineEnabled,
			"outcome", "disabled",
		)
		return 0
	}

	notifier = notify.New(svc.Mail, cfg, flags.AlertsEnabled, logger)

	stats, err := etl.NewPipeline(svc.Files, svc.Sheets, logger).Run(ctx, execDate, flags.BackupEnabled)
	if err != nil {
		return fail(ctx, notifier, err, "pipeline execution", execDate, runID, logger)
	}

	if err := notifier.NotifySuccess(ctx, stats, execDate, runID); err != nil {
		// A notification failure does not fail a completed run.
		logger.Warn("Failed to send success notification", "error", err)
	}

	logger.Info("Execution completed successfully", "stats", stats)
	return 0
}

// fail logs the error, reports it, sends the failure alert, and returns the
// process exit code.
func fail(ctx context.Context, notifier *notify.Notifier, err error, contextLabel string, execDate time.Time, runID string, logger *slog.Logger) int {
	logger.Error("Pipeline execution failed", "context", contextLabel, "error", err)
	sentry.CaptureException(err, map[string]interface{}{"context": contextLabel, "run_id": runID}, nil)

	if mailErr := notifier.NotifyFailure(ctx, err, contextLabel, execDate, runID); mailErr != nil {
		logger.Warn("Failed to send error alert", "error", mailErr)
	}
	return 1
}
