// Package googleauth exchanges the service-account key for API clients.
package googleauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrMissingCredentials = errors.New("GCP_JSON environment variable is not set")

// Scopes cover everything the pipeline touches: spreadsheet reads/writes and
// Drive file access.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// NewClients authenticates with the service-account key JSON and returns the
// Sheets and Drive API clients.
func NewClients(ctx context.Context, credentialsJSON string) (*sheets.Service, *drive.Service, error) {
	if credentialsJSON == "" {
		return nil, nil, ErrMissingCredentials
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(credentialsJSON), Scopes...)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("creating sheets client: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("creating drive client: %w", err)
	}

	return sheetsSvc, driveSvc, nil
}
