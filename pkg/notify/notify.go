// Package notify sends the one success-or-failure email each run produces.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/etl"
	"github.com/appaso/pipeline/pkg/mapping"
)

// Notifier formats and sends run notifications. Sends are skipped when the
// alerts flag is off or the email settings are incomplete; a send failure is
// reported to the caller but must never mask the pipeline error.
type Notifier struct {
	mail    shared.Mailer
	cfg     *config.Settings
	enabled bool
	log     *slog.Logger
}

func New(mail shared.Mailer, cfg *config.Settings, enabled bool, log *slog.Logger) *Notifier {
	return &Notifier{mail: mail, cfg: cfg, enabled: enabled, log: log.With("component", "notify")}
}

// NotifySuccess sends the success summary with per-data-type row counts.
func (n *Notifier) NotifySuccess(ctx context.Context, stats *etl.Stats, execDate time.Time, runID string) error {
	if n.skip() {
		return nil
	}

	subject := fmt.Sprintf("✓ ETL Pipeline Success - %s", execDate.Format("2006-01-02"))
	body := strings.Join([]string{
		"ETL Pipeline Execution Completed Successfully",
		"",
		fmt.Sprintf("Date: %s", execDate.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Run ID: %s", runID),
		"Project: AppASO",
		"",
		"Execution Summary:",
		"------------------",
		fmt.Sprintf("Keywords processed: %d rows", stats.Rows(mapping.Keywords)),
		fmt.Sprintf("Installs processed: %d rows", stats.Rows(mapping.Installs)),
		fmt.Sprintf("Users processed: %d rows", stats.Rows(mapping.Users)),
		"",
		fmt.Sprintf("Data updated in Google Sheets: %s", config.MasterDataSheet),
		fmt.Sprintf("Archive worksheets written to: %s", config.ArchiveDataSheet),
		"",
		"This is an automated message from the AppASO ETL Pipeline.",
	}, "\n")

	if err := n.mail.Send(ctx, subject, body); err != nil {
		return fmt.Errorf("success notification: %w", err)
	}
	n.log.Info("Success notification sent", "recipient", n.cfg.EmailRecipient)
	return nil
}

// NotifyFailure sends the error alert with the failing stage context.
func (n *Notifier) NotifyFailure(ctx context.Context, runErr error, contextLabel string, execDate time.Time, runID string) error {
	if n.skip() {
		return nil
	}

	subject := fmt.Sprintf("✗ ETL Pipeline Error - %s", execDate.Format("2006-01-02"))
	body := strings.Join([]string{
		"ETL Pipeline Execution Failed",
		"",
		fmt.Sprintf("Date: %s", execDate.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Run ID: %s", runID),
		"Project: AppASO",
		"",
		fmt.Sprintf("Context: %s", contextLabel),
		"",
		"Error Details:",
		runErr.Error(),
		"",
		"This is an automated message from the AppASO ETL Pipeline.",
	}, "\n")

	if err := n.mail.Send(ctx, subject, body); err != nil {
		return fmt.Errorf("failure notification: %w", err)
	}
	n.log.Info("Error alert sent", "recipient", n.cfg.EmailRecipient)
	return nil
}

func (n *Notifier) skip() bool {
	if !n.enabled {
		n.log.Info("Alerts disabled - skipping email notification")
		return true
	}
	if !n.cfg.EmailConfigured() {
		n.log.Warn("Email configuration incomplete - skipping email notification")
		return true
	}
	return false
}
