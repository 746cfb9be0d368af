package main

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
	"github.com/appaso/pipeline/pkg/notify"
	"github.com/appaso/pipeline/pkg/testing/mocks"
)

// An authentication failure happens before any Google client exists, so the
// failure alert must go out on SMTP settings alone.
func TestFailSendsAuthFailureAlert(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Settings{
		EmailUser:      "etl@example.com",
		EmailPassword:  "pw",
		EmailRecipient: "ops@example.com",
	}
	mail := &mocks.MockMailer{}
	notifier := notify.New(mail, cfg, true, logger)

	execDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	authErr := errors.New("google auth: parsing service account credentials: invalid key")

	code := fail(context.Background(), notifier, authErr, "authentication", execDate, "run-123", logger)

	assert.Equal(t, 1, code)
	require.Len(t, mail.Sent, 1)
	assert.Contains(t, mail.Sent[0].Body, "Context: authentication")
	assert.Contains(t, mail.Sent[0].Body, "invalid key")
}

func TestFailMailErrorKeepsExitCode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Settings{
		EmailUser:      "etl@example.com",
		EmailPassword:  "pw",
		EmailRecipient: "ops@example.com",
	}
	mail := &mocks.MockMailer{
		SendFunc: func(ctx context.Context, subject, body string) error {
			return errors.New("smtp: connection refused")
		},
	}
	notifier := notify.New(mail, cfg, true, logger)

	execDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	code := fail(context.Background(), notifier, errors.New("load: boom"), "pipeline execution", execDate, "run-123", logger)

	assert.Equal(t, 1, code, "a failed alert must not change the run outcome")
}
