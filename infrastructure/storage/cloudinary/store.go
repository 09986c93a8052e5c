// Package cloudinary stores uploaded files as Cloudinary raw assets.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
)

// DefaultFolder is where PDFs are uploaded
const DefaultFolder = "zyra-pdfs"

const resourceTypeRaw = "raw"

// UploadAPI is the part of the Cloudinary upload API used by the store
type UploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Store implements ports.ObjectStore
type Store struct {
	api           UploadAPI
	folder        string
	uploadTimeout time.Duration
	deleteTimeout time.Duration
	logger        *zap.Logger
}

// NewFromURL creates a store from a CLOUDINARY_URL
// (cloudinary://<key>:<secret>@<cloud>)
func NewFromURL(cloudinaryURL, folder string, logger *zap.Logger) (*Store, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return New(&cld.Upload, folder, logger), nil
}

// New creates a store on top of an upload API
func New(api UploadAPI, folder string, logger *zap.Logger) *Store {
	if folder == "" {
		folder = DefaultFolder
	}
	return &Store{
		api:           api,
		folder:        folder,
		uploadTimeout: 30 * time.Second,
		deleteTimeout: 10 * time.Second,
		logger:        logger,
	}
}

// Upload stores the body as a raw asset whose public id is req.Key
func (s *Store) Upload(ctx context.Context, req ports.UploadRequest) (*ports.StoredObject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	result, err := s.api.Upload(ctx, req.Body, uploader.UploadParams{
		PublicID:     req.Key,
		Folder:       s.folder,
		ResourceType: resourceTypeRaw,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return nil, errors.New("cloudinary upload returned no url")
	}

	s.logger.Debug("Uploaded object",
		zap.String("public_id", result.PublicID),
		zap.Int("bytes", result.Bytes),
	)
	return &ports.StoredObject{Key: result.PublicID, URL: result.SecureURL}, nil
}

// Delete destroys the asset. A missing asset is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
	defer cancel()

	result, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: resourceTypeRaw,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy failed: %s", result.Error.Message)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", result.Result)
	}
	return nil
}
