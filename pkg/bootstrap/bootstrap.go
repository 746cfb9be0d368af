package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/infrastructure/email"
	"github.com/appaso/pipeline/pkg/infrastructure/gdrive"
	"github.com/appaso/pipeline/pkg/infrastructure/googleauth"
	"github.com/appaso/pipeline/pkg/infrastructure/gsheets"
)

// Service holds initialized dependencies
type Service struct {
	Files  shared.FileStore
	Sheets shared.SpreadsheetStore
	Mail   shared.Mailer
	Config *config.Settings
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
	component string
}

// WithGroup implements slog.Handler
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{
		Handler:   h.Handler.WithGroup(name),
		component: h.component,
	}
}

// WithAttrs implements slog.Handler
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newComp := h.component
	for _, a := range attrs {
		if a.Key == "component" {
			newComp = a.Value.String()
		}
	}
	return &ComponentHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		component: newComp,
	}
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	comp := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			comp = a.Value.String()
			return false // stop
		}
		return true
	})

	if comp != "" {
		newMsg := fmt.Sprintf("[%s] %s", comp, r.Message)
		newRecord := slog.NewRecord(r.Time, r.Level, newMsg, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			newRecord.AddAttrs(a)
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// NewLogger creates a configured logger instance. The level comes from the
// LOG_LEVEL env var and defaults to info.
func NewLogger(serviceName string) *slog.Logger {
	logLevelStr := os.Getenv("LOG_LEVEL")
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := GetSlogHandlerOptions(level)
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// NewService initializes all standard dependencies from resolved settings.
func NewService(ctx context.Context, cfg *config.Settings, logger *slog.Logger) (*Service, error) {
	sheetsAPI, driveAPI, err := googleauth.NewClients(ctx, cfg.GCPCredentialsJSON)
	if err != nil {
		logger.Error("Google auth failed", "error", err)
		return nil, fmt.Errorf("google auth: %w", err)
	}

	return &Service{
		Files:  gdrive.NewAdapter(driveAPI),
		Sheets: gsheets.NewAdapter(sheetsAPI),
		Mail:   email.NewSMTPMailer(cfg),
		Config: cfg,
	}, nil
}
