// Package storage uploads user media (profile and post images, audio) to
// Google Cloud Storage and returns their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// PublicBaseURL is the host serving public GCS objects
const PublicBaseURL = "https://storage.googleapis.com"

// Uploader stores a file and returns the URL it can be fetched from. Remove
// deletes an object by the URL Upload returned.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// CheckMediaType accepts image and audio content types only
func CheckMediaType(contentType string) error {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "image") || strings.Contains(ct, "audio") {
		return nil
	}
	return apperr.InvalidUpload(contentType)
}

// ObjectName returns a collision-free object name keeping the file extension
func ObjectName(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// PublicURL returns the public URL of an object in bucket
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", PublicBaseURL, bucket, object)
}

// ObjectFromURL extracts the object name from a public URL of bucket
func ObjectFromURL(bucket, url string) (string, bool) {
	prefix := PublicBaseURL + "/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// GCSUploader is the Cloud Storage implementation of Uploader
type GCSUploader struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

var _ Uploader = (*GCSUploader)(nil)

// NewGCSUploader creates a client for the configured bucket. Without a
// credentials file the application default credentials are used.
func NewGCSUploader(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (*GCSUploader, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", cfg.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSUploader{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("component", "storage").Str("bucket", cfg.Bucket).Logger(),
	}, nil
}

// Upload writes body to a new object and returns its public URL
func (u *GCSUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	object := ObjectName(filename)

	writer := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to copy %s to GCS object %s: %w", filename, object, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", object, err)
	}

	u.log.Debug().Str("object", object).Str("content_type", contentType).Msg("Uploaded file")
	return PublicURL(u.bucket, object), nil
}

// Remove deletes the object behind url. A missing object is not an error.
func (u *GCSUploader) Remove(ctx context.Context, url string) error {
	object, ok := ObjectFromURL(u.bucket, url)
	if !ok {
		return fmt.Errorf("url %s is not in bucket %s", url, u.bucket)
	}

	err := u.client.Bucket(u.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %s: %w", object, err)
	}

	u.log.Debug().Str("object", object).Msg("Removed file")
	return nil
}

// Close releases the underlying client
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
