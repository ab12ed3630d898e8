package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

// ObjectStoreClient is the subset of the minio client the service uses,
// extracted so tests can substitute a fake.
type ObjectStoreClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioMediaStorage relays uploaded images to an S3-compatible object store
// and derives a durable public URL for each stored object.
type MinioMediaStorage struct {
	client        ObjectStoreClient
	bucket        string
	publicBaseURL string
}

const defaultContentType = "application/octet-stream"

// NewMinioMediaStorage creates a storage client from configuration.
func NewMinioMediaStorage(cfg *config.Config) (*MinioMediaStorage, error) {
	minioClient, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	publicBaseURL := cfg.StoragePublicBaseURL
	if publicBaseURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s", scheme, cfg.StorageEndpoint)
	}

	return &MinioMediaStorage{
		client:        minioClient,
		bucket:        cfg.StorageBucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// NewMinioMediaStorageWithClient wires a pre-built client; used by tests.
func NewMinioMediaStorageWithClient(client ObjectStoreClient, bucket, publicBaseURL string) *MinioMediaStorage {
	return &MinioMediaStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload stores the object under a generated key and returns its public URL.
// Any provider failure surfaces as apperrors.ErrUpload; the provider error
// detail stays in the wrapped chain for logging, never in client responses.
func (s *MinioMediaStorage) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	objectKey := uuid.NewString() + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %v", apperrors.ErrUpload, objectKey, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectKey), nil
}

// Remove deletes a stored object by key.
func (s *MinioMediaStorage) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %s: %v", apperrors.ErrUpload, objectKey, err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
