package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/storage"
	"github.com/rs/zerolog"
)

// errUploadsDisabled is returned when an attachment arrives but no bucket is
// configured
var errUploadsDisabled = errors.New("file uploads are not configured")

type attachments struct {
	uploader storage.Uploader
	log      zerolog.Logger
}

// check rejects attachments that are not images or audio
func (a *attachments) check(file *models.Attachment) error {
	if file == nil {
		return nil
	}
	return storage.CheckMediaType(file.ContentType)
}

// store uploads the attachment and returns its URL, "" when there is none
func (a *attachments) store(ctx context.Context, file *models.Attachment) (string, error) {
	if file == nil {
		return "", nil
	}
	if err := a.check(file); err != nil {
		return "", err
	}
	if a.uploader == nil {
		return "", errUploadsDisabled
	}
	url, err := a.uploader.Upload(ctx, file.Filename, file.ContentType, file.Body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Filename, err)
	}
	return url, nil
}

// discard removes an uploaded object whose record was never stored. A
// failed removal is logged and otherwise ignored.
func (a *attachments) discard(ctx context.Context, url string) {
	if url == "" || a.uploader == nil {
		return
	}
	if err := a.uploader.Remove(ctx, url); err != nil {
		a.log.Warn().Err(err).Str("url", url).Msg("Failed to remove orphaned upload")
	}
}

func deleted(kind, id string) *models.DeleteResult {
	return &models.DeleteResult{Message: fmt.Sprintf("%s with id %s has been deleted", kind, id)}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func stringOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}
