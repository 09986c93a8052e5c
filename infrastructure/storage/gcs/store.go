// Package gcs stores uploaded files in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Labib591/zyra/application/ports"
)

// Store implements ports.ObjectStore on a bucket
type Store struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewStore creates a store. With an empty credentialsFile the application
// default credentials are used.
func NewStore(ctx context.Context, bucket, prefix, credentialsFile string, logger *zap.Logger) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

// Upload writes the body to <prefix>/<key>.pdf
func (s *Store) Upload(ctx context.Context, req ports.UploadRequest) (*ports.StoredObject, error) {
	key := ObjectName(s.prefix, req.Key)

	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = req.ContentType
	writer.ContentDisposition = fmt.Sprintf("inline; filename=%q", req.FileName)

	if _, err := io.Copy(writer, req.Body); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to copy upload to gs://%s/%s: %w", s.bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}

	s.logger.Debug("Uploaded object", zap.String("bucket", s.bucket), zap.String("key", key))
	return &ports.StoredObject{Key: key, URL: PublicURL(s.bucket, key)}, nil
}

// Delete removes the object. A missing object is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Close releases the client
func (s *Store) Close() error {
	return s.client.Close()
}

// ObjectName joins the prefix and the key and adds the pdf extension
func ObjectName(prefix, key string) string {
	return path.Join(prefix, key+".pdf")
}

// PublicURL is the storage.googleapis.com URL of an object
func PublicURL(bucket, key string) string {
	return (&url.URL{
		Scheme: "https",
		Host:   "storage.googleapis.com",
		Path:   "/" + bucket + "/" + key,
	}).String()
}
