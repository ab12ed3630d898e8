package services

import (
	"context"
	"io"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
)

// MediaStorageSvcFacade is the media ingestion contract: relay raw image bytes
// to the external object-storage provider and obtain a durable public URL.
type MediaStorageSvcFacade interface {
	// Upload stores the object and returns its publicly fetchable URL.
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)

	// Remove deletes a previously uploaded object by its key.
	Remove(ctx context.Context, objectKey string) error
}

// DiagnosisSvcFacade is the diagnosis contract: send the image to the external
// generative model and parse a structured diagnosis out of its reply.
// The model is non-deterministic; callers must not assume idempotence.
type DiagnosisSvcFacade interface {
	Diagnose(ctx context.Context, imageBytes []byte, contentType string) (*domain.Diagnosis, error)
}

// ImageSvcFacade combines ingestion and diagnosis results into persisted
// records and exposes the owner-scoped record operations.
type ImageSvcFacade interface {
	// UploadAndScan runs the sequential ingest -> diagnose -> persist workflow.
	// Validation failures short-circuit before any external call; any stage
	// failure fails the whole request with no partial persistence.
	UploadAndScan(ctx context.Context, ownerID string, req dto.UploadImageRequest, imageBytes []byte, contentType string) (*domain.Image, *domain.Diagnosis, error)

	// ListImages returns one page of the owner's records, newest first.
	ListImages(ctx context.Context, ownerID string, page, limit int) (*domain.ImagePage, error)

	// GetImageByID returns a single record, enforcing ownership.
	GetImageByID(ctx context.Context, requesterID, imageID string) (*domain.Image, error)

	// DeleteImage removes a record, enforcing ownership.
	DeleteImage(ctx context.Context, requesterID, imageID string) error

	// GetDiseaseStats aggregates the owner's records by disease label.
	GetDiseaseStats(ctx context.Context, ownerID string) (*domain.DiseaseStatsSummary, error)
}
