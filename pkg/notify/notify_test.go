package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/etl"
	"github.com/appaso/pipeline/pkg/mapping"
	"github.com/appaso/pipeline/pkg/testing/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func emailSettings() *config.Settings {
	return &config.Settings{
		EmailUser:      "etl@example.com",
		EmailPassword:  "pw",
		EmailRecipient: "ops@example.com",
	}
}

func runStats() *etl.Stats {
	stats := etl.NewStats()
	stats.Set(mapping.Keywords, 786)
	stats.Set(mapping.Installs, 120)
	stats.Set(mapping.Users, 60)
	return stats
}

var execDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

func TestNotifySuccess(t *testing.T) {
	mail := &mocks.MockMailer{}
	n := New(mail, emailSettings(), true, testLogger())

	err := n.NotifySuccess(context.Background(), runStats(), execDate, "run-123")
	require.NoError(t, err)
	require.Len(t, mail.Sent, 1)

	sent := mail.Sent[0]
	assert.Equal(t, "✓ ETL Pipeline Success - 2025-07-15", sent.Subject)
	assert.Contains(t, sent.Body, "Keywords processed: 786 rows")
	assert.Contains(t, sent.Body, "Installs processed: 120 rows")
	assert.Contains(t, sent.Body, "Users processed: 60 rows")
	assert.Contains(t, sent.Body, "Run ID: run-123")
	assert.Contains(t, sent.Body, config.MasterDataSheet)
}

func TestNotifyFailure(t *testing.T) {
	mail := &mocks.MockMailer{}
	n := New(mail, emailSettings(), true, testLogger())

	runErr := errors.New("extract: file not found in RAW folder: \"Installs Google\"")
	err := n.NotifyFailure(context.Background(), runErr, "pipeline execution", execDate, "run-123")
	require.NoError(t, err)
	require.Len(t, mail.Sent, 1)

	sent := mail.Sent[0]
	assert.Equal(t, "✗ ETL Pipeline Error - 2025-07-15", sent.Subject)
	assert.Contains(t, sent.Body, "Context: pipeline execution")
	assert.Contains(t, sent.Body, "Installs Google")
}

func TestNotifySkippedWhenDisabled(t *testing.T) {
	mail := &mocks.MockMailer{}
	n := New(mail, emailSettings(), false, testLogger())

	require.NoError(t, n.NotifySuccess(context.Background(), runStats(), execDate, "run-123"))
	require.NoError(t, n.NotifyFailure(context.Background(), errors.New("boom"), "load", execDate, "run-123"))
	assert.Empty(t, mail.Sent, "disabled alerts must not send")
}

func TestNotifySkippedWhenUnconfigured(t *testing.T) {
	mail := &mocks.MockMailer{}
	n := New(mail, &config.Settings{}, true, testLogger())

	require.NoError(t, n.NotifySuccess(context.Background(), runStats(), execDate, "run-123"))
	assert.Empty(t, mail.Sent, "incomplete email settings must not send")
}

func TestNotifySendErrorSurfaces(t *testing.T) {
	mail := &mocks.MockMailer{
		SendFunc: func(ctx context.Context, subject, body string) error {
			return errors.New("smtp: connection refused")
		},
	}
	n := New(mail, emailSettings(), true, testLogger())

	err := n.NotifySuccess(context.Background(), runStats(), execDate, "run-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "success notification")
}
