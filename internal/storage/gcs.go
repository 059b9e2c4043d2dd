package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ErrNotFound is returned by Delete when the object is already gone.
var ErrNotFound = errors.New("object not found")

// GCSUploader stages local audio in a Cloud Storage bucket so the speech
// API can read it by gs:// URI.
type GCSUploader struct {
	client *gcs.Client
	bucket string
}

// NewGCSUploader connects to Cloud Storage. An empty credentialsFile falls
// back to application default credentials.
func NewGCSUploader(
	ctx context.Context,
	bucket, credentialsFile string,
) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSUploader{client: client, bucket: bucket}, nil
}

// Upload copies the local file to object and returns its gs:// URI.
func (u *GCSUploader) Upload(
	ctx context.Context,
	localPath, object string,
) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = contentType(localPath)

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("upload to %s failed: %w", URI(u.bucket, object), err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload to %s failed: %w", URI(u.bucket, object), err)
	}

	return URI(u.bucket, object), nil
}

// Delete removes object. It returns ErrNotFound when nothing was there.
func (u *GCSUploader) Delete(ctx context.Context, object string) error {
	err := u.client.Bucket(u.bucket).Object(object).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s failed: %w", URI(u.bucket, object), err)
	}
	return nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// ObjectName builds a collision-free object name under prefix, keeping the
// extension of localPath.
func ObjectName(prefix, localPath string) string {
	return path.Join(prefix, uuid.NewString()+filepath.Ext(localPath))
}

func URI(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

func contentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
