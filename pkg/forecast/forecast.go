// Package forecast predicts daily installs for the upcoming month, one
// linear-regression model per platform, and publishes the result as the
// FORECAST worksheet of the master spreadsheet.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	shared "github.com/appaso/pipeline/pkg"
	"github.com/appaso/pipeline/pkg/config"
	"github.com/appaso/pipeline/pkg/etl"
	"github.com/appaso/pipeline/pkg/mapping"
)

const (
	// DefaultTrainingDays is the trailing window the models train on.
	DefaultTrainingDays = 120
	// DefaultHorizonDays is how far ahead the forecast extends.
	DefaultHorizonDays = 30
)

// forecastColumns is the FORECAST worksheet schema.
var forecastColumns = []string{"Date", "Forecast_Installs", "Platform", "Generated_At"}

type observation struct {
	date     time.Time
	installs float64
}

// Forecaster reads historical installs from the INSTALLS worksheet, fits one
// least-squares line per platform over date ordinals, and writes the
// extrapolation.
type Forecaster struct {
	files        shared.FileStore
	sheets       shared.SpreadsheetStore
	log          *slog.Logger
	TrainingDays int
	HorizonDays  int
}

func New(files shared.FileStore, sheets shared.SpreadsheetStore, log *slog.Logger) *Forecaster {
	return &Forecaster{
		files:        files,
		sheets:       sheets,
		log:          log.With("component", "forecast"),
		TrainingDays: DefaultTrainingDays,
		HorizonDays:  DefaultHorizonDays,
	}
}

// Run trains and publishes the forecast. now anchors the training window.
func (f *Forecaster) Run(ctx context.Context, now time.Time) error {
	masterID, err := f.files.FindFile(ctx, config.MasterDataSheet, "")
	if err != nil {
		return fmt.Errorf("locating spreadsheet %q: %w", config.MasterDataSheet, err)
	}
	if masterID == "" {
		return fmt.Errorf("spreadsheet %q not found", config.MasterDataSheet)
	}

	history, err := f.loadHistory(ctx, masterID)
	if err != nil {
		return err
	}

	cutoff := now.AddDate(0, 0, -f.TrainingDays)
	rows, err := f.forecastRows(history, cutoff, now)
	if err != nil {
		return err
	}

	return f.publish(ctx, masterID, rows)
}

// loadHistory reads the INSTALLS worksheet into per-platform observations.
func (f *Forecaster) loadHistory(ctx context.Context, masterID string) (map[mapping.Platform][]observation, error) {
	rows, err := f.sheets.ReadRows(ctx, masterID, config.InstallsSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("worksheet %q has no data rows", config.InstallsSheet)
	}

	header := rows[0]
	dateIdx, installsIdx, platformIdx := indexOf(header, "Date"), indexOf(header, "Installs"), indexOf(header, "Platform")
	if dateIdx < 0 || installsIdx < 0 || platformIdx < 0 {
		return nil, fmt.Errorf("worksheet %q is missing Date/Installs/Platform columns", config.InstallsSheet)
	}

	history := make(map[mapping.Platform][]observation)
	for i, row := range rows[1:] {
		date, err := etl.ParseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("installs row %d: %w", i+2, err)
		}
		installs, err := strconv.ParseFloat(cell(row, installsIdx), 64)
		if err != nil {
			return nil, fmt.Errorf("installs row %d: invalid installs value %q", i+2, cell(row, installsIdx))
		}
		platform := mapping.Platform(cell(row, platformIdx))
		history[platform] = append(history[platform], observation{date: date, installs: installs})
	}

	f.log.Info("Loaded installs history", "platforms", len(history))
	return history, nil
}

// forecastRows fits each platform on observations after cutoff and
// extrapolates the horizon beyond the most recent observed date.
func (f *Forecaster) forecastRows(history map[mapping.Platform][]observation, cutoff, now time.Time) ([][]interface{}, error) {
	var lastDate time.Time
	training := make(map[mapping.Platform][]observation)
	for platform, obs := range history {
		for _, o := range obs {
			if o.date.Before(cutoff) {
				continue
			}
			training[platform] = append(training[platform], o)
			if o.date.After(lastDate) {
				lastDate = o.date
			}
		}
	}
	if lastDate.IsZero() {
		return nil, fmt.Errorf("no installs data within the last %d days", f.TrainingDays)
	}

	generatedAt := now.Format("2006-01-02 15:04:05")

	// Stable platform order in the output.
	platforms := make([]mapping.Platform, 0, len(training))
	for platform := range training {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	rows := [][]interface{}{}
	for _, platform := range platforms {
		obs := training[platform]
		if len(obs) < 2 {
			f.log.Warn("Not enough data to train model", "platform", platform, "observations", len(obs))
			continue
		}

		slope, intercept := fitLine(obs)
		f.log.Info("Trained model", "platform", platform, "observations", len(obs), "slope", slope)

		for day := 1; day <= f.HorizonDays; day++ {
			date := lastDate.AddDate(0, 0, day)
			predicted := slope*ordinal(date) + intercept
			if predicted < 0 || math.IsNaN(predicted) {
				predicted = 0
			}
			rows = append(rows, []interface{}{
				date.Format(etl.DateLayout),
				int64(math.Round(predicted)),
				string(platform),
				generatedAt,
			})
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no platform had enough observations to train")
	}
	return rows, nil
}

// publish replaces the FORECAST worksheet with header plus rows.
func (f *Forecaster) publish(ctx context.Context, masterID string, rows [][]interface{}) error {
	title := config.ForecastSheet

	titles, err := f.sheets.WorksheetTitles(ctx, masterID)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	for _, existing := range titles {
		if existing == title {
			if err := f.sheets.DeleteWorksheet(ctx, masterID, title); err != nil {
				return fmt.Errorf("forecast: %w", err)
			}
			break
		}
	}

	if err := f.sheets.CreateWorksheet(ctx, masterID, title, int64(len(rows)+1), int64(len(forecastColumns))); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	header := make([]interface{}, len(forecastColumns))
	for i, c := range forecastColumns {
		header[i] = c
	}
	values := append([][]interface{}{header}, rows...)

	if err := f.sheets.WriteRows(ctx, masterID, title, values); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}

	f.log.Info("Published forecast", "worksheet", title, "rows", len(rows))
	return nil
}

// fitLine computes ordinary least squares over (date ordinal, installs).
func fitLine(obs []observation) (slope, intercept float64) {
	n := float64(len(obs))
	var sumX, sumY, sumXY, sumXX float64
	for _, o := range obs {
		x := ordinal(o.date)
		sumX += x
		sumY += o.installs
		sumXY += x * o.installs
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// All observations on the same day: flat line at the mean.
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// ordinal converts a date to whole days since the Unix epoch.
func ordinal(t time.Time) float64 {
	return float64(t.Unix() / 86400)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
