// Package config resolves the pipeline settings once at startup.
// Precedence for the control-panel sibling flags is: explicit env override >
// control-panel cell > default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Google Drive structure constants. These mirror the shared Drive layout the
// pipeline operates on and are not expected to change between runs.
const (
	ControlPanelName = "00_Control_Panel"
	ControlSheetName = "Config"

	// Control panel cells (worksheet "Config").
	CellPipelineEnabled = "B3"
	CellBackupEnabled   = "B4"
	CellAlertsEnabled   = "B5"
	CellForecastEnabled = "B6"

	// Folder holding the six source exports.
	RawDataFolderID = "1HptFA1vpGiLZaLzZZZO5wI0P3EjKTDlL"

	// Destination spreadsheet with the three current worksheets.
	MasterDataSheet = "MASTER_DATA_CLEAN"

	KeywordsSheet = "KEYWORDS"
	InstallsSheet = "INSTALLS"
	UsersSheet    = "USERS"
	ForecastSheet = "FORECAST"

	// Archive spreadsheet holding the dated worksheet snapshots.
	ArchiveDataSheet = "MASTER_DATA_HISTORIC"

	// Data lake folder for daily CSV backups.
	DataLakeFolder = "02_Data_Lake_Historic"
)

// AgencyStartDate separates Pre-Agencia rows from Con-Agencia rows. Rows dated
// strictly before it are Pre-Agencia.
var AgencyStartDate = time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

// MonthFolders maps a month to its Data Lake folder name.
var MonthFolders = map[time.Month]string{
	time.January:   "01_January",
	time.February:  "02_February",
	time.March:     "03_March",
	time.April:     "04_April",
	time.May:       "05_May",
	time.June:      "06_June",
	time.July:      "07_July",
	time.August:    "08_August",
	time.September: "09_September",
	time.October:   "10_October",
	time.November:  "11_November",
	time.December:  "12_December",
}

// Settings is the resolved process configuration. Built once in Load and
// treated as immutable afterwards.
type Settings struct {
	// Service-account key JSON (GCP_JSON).
	GCPCredentialsJSON string

	// Email transport.
	SMTPHost       string
	SMTPPort       int
	EmailUser      string
	EmailPassword  string
	EmailRecipient string

	// Error tracking.
	SentryDSN   string
	Environment string

	// ExecutionDate defaults to now; EXECUTION_DATE (YYYY-MM-DD) overrides it
	// for testing and backfills.
	ExecutionDate time.Time

	// Optional overrides for the control-panel sibling cells. Nil means the
	// cell value applies.
	BackupOverride   *bool
	AlertsOverride   *bool
	ForecastOverride *bool
}

// Load resolves settings from the environment.
func Load() (*Settings, error) {
	s := &Settings{
		GCPCredentialsJSON: os.Getenv("GCP_JSON"),
		SMTPHost:           envOr("SMTP_HOST", "smtp.gmail.com"),
		EmailUser:          os.Getenv("EMAIL_USER"),
		EmailPassword:      os.Getenv("EMAIL_PASSWORD"),
		EmailRecipient:     os.Getenv("EMAIL_RECIPIENT"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		Environment:        envOr("ENVIRONMENT", "production"),
		ExecutionDate:      time.Now().UTC(),
	}

	port := envOr("SMTP_PORT", "587")
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
	}
	s.SMTPPort = p

	if v := os.Getenv("EXECUTION_DATE"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid EXECUTION_DATE %q: %w", v, err)
		}
		s.ExecutionDate = d
	}

	if s.BackupOverride, err = envBool("BACKUP_ENABLED"); err != nil {
		return nil, err
	}
	if s.AlertsOverride, err = envBool("ALERTS_ENABLED"); err != nil {
		return nil, err
	}
	if s.ForecastOverride, err = envBool("ML_ENABLED"); err != nil {
		return nil, err
	}

	return s, nil
}

// EmailConfigured reports whether all settings needed to send mail are present.
func (s *Settings) EmailConfigured() bool {
	return s.EmailUser != "" && s.EmailPassword != "" && s.EmailRecipient != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) (*bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return &b, nil
}
