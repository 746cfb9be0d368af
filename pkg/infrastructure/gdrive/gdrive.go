// Package gdrive adapts the Drive v3 API to the shared.FileStore interface.
package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const folderMIME = "application/vnd.google-apps.folder"

type Adapter struct {
	svc *drive.Service
}

func NewAdapter(svc *drive.Service) *Adapter {
	return &Adapter{svc: svc}
}

// ListFolder returns name -> file ID for every non-trashed file in the folder.
func (a *Adapter) ListFolder(ctx context.Context, folderID string) (map[string]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	files := make(map[string]string)
	pageToken := ""
	for {
		call := a.svc.Files.List().
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing folder %s: %w", folderID, err)
		}
		for _, f := range res.Files {
			files[f.Name] = f.Id
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	return files, nil
}

// FindFile looks up a file by exact name. Returns an empty ID when nothing
// matches.
func (a *Adapter) FindFile(ctx context.Context, name, parentID string) (string, error) {
	return a.findByQuery(ctx, name, parentID, fmt.Sprintf("name='%s' and trashed=false", escapeQuery(name)))
}

// FindFolder looks up a folder by exact name. Returns an empty ID when nothing
// matches.
func (a *Adapter) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), folderMIME)
	return a.findByQuery(ctx, name, parentID, query)
}

func (a *Adapter) findByQuery(ctx context.Context, name, parentID, query string) (string, error) {
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	res, err := a.svc.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("finding %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return "", nil
	}
	return res.Files[0].Id, nil
}

func (a *Adapter) Download(ctx context.Context, fileID string) ([]byte, error) {
	res, err := a.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok {
			return nil, fmt.Errorf("downloading file %s (status %d): %w", fileID, gerr.Code, err)
		}
		return nil, fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", fileID, err)
	}
	return data, nil
}

// UploadCSV creates name in the folder, or replaces its content if a file
// with that name already exists there.
func (a *Adapter) UploadCSV(ctx context.Context, folderID, name string, data []byte) error {
	existingID, err := a.FindFile(ctx, name, folderID)
	if err != nil {
		return err
	}

	media := googleapi.ContentType("text/csv")
	if existingID != "" {
		_, err = a.svc.Files.Update(existingID, &drive.File{}).
			Media(bytes.NewReader(data), media).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("replacing %q: %w", name, err)
		}
		return nil
	}

	_, err = a.svc.Files.Create(&drive.File{Name: name, Parents: []string{folderID}}).
		Media(bytes.NewReader(data), media).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("creating %q: %w", name, err)
	}
	return nil
}

// escapeQuery escapes single quotes for Drive query strings.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
