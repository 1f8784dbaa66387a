package googleDriveApi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/config"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	viewLinkTemplate = "https://drive.google.com/file/d/%s/view"

	appPropertyKey   = "app"
	appPropertyValue = "wealth-tax-helper"
)

// reportQuery selects only files uploaded by this service.
var reportQuery = fmt.Sprintf("appProperties has { key='%s' and value='%s' } and trashed = false", appPropertyKey, appPropertyValue)

type GoogleDriveApi struct {
	srv     *drive.Service
	fileTTL time.Duration
}

func New(ctx context.Context, cfg *config.Config) (*GoogleDriveApi, error) {
	srv, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return &GoogleDriveApi{srv: srv, fileTTL: cfg.GoogleDrive.FileTTL}, nil
}

// UploadFile stores the file readable by anyone with the link and returns that link.
func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (link string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	fileMeta := &drive.File{
		Name:          filename,
		MimeType:      mime.TypeByExtension(filepath.Ext(filename)),
		AppProperties: map[string]string{appPropertyKey: appPropertyValue},
	}

	// Media uploads in chunks and retries them on network errors.
	uploaded, err := a.srv.Files.
		Create(fileMeta).
		Media(reader).
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on uploading file to google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}

	_, err = a.srv.Permissions.Create(uploaded.Id, perm).Context(ctx).Do()
	if err != nil {
		slog.Error("failed on creating permission for uploaded file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", uploaded.Id))

	return fmt.Sprintf(viewLinkTemplate, uploaded.Id), nil
}

// DeleteOldFiles removes reports uploaded more than the configured TTL ago.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("rqID", rqID), slog.String("op", op))

	threshold := time.Now().Add(-a.fileTTL)
	total, deleted := 0, 0

	err := a.srv.Files.List().
		Q(reportQuery).
		Fields("nextPageToken, files(id, createdTime)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				total++
				if !expired(f.CreatedTime, threshold) {
					continue
				}
				if err := a.srv.Files.Delete(f.Id).Context(ctx).Do(); err != nil {
					slog.Error("failed delete file", slog.String("rqID", rqID), slog.String("op", op),
						slog.String("err", err.Error()), slog.String("fileID", f.Id))
					continue
				}
				deleted++
			}
			return nil
		})
	if err != nil {
		slog.Error("failed on listing files", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Info("delete old reports done", slog.String("rqID", rqID), slog.Int("deletedFiles", deleted), slog.Int("remainingFiles", total-deleted))

	return nil
}

// expired reports whether an RFC 3339 creation time lies before threshold.
// Unparseable times are kept.
func expired(createdTime string, threshold time.Time) bool {
	created, err := time.Parse(time.RFC3339, createdTime)
	if err != nil {
		slog.Warn("failed parse file createdTime", slog.String("createdTime", createdTime))
		return false
	}
	return created.Before(threshold)
}
