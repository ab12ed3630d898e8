package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
)

type imageService struct {
	imageRepo portsrepo.ImageRepository
	storage   portssvc.MediaStorageSvcFacade
	diagnoser portssvc.DiagnosisSvcFacade
}

// NewImageService creates the image service over its repository and the two
// external collaborators (object storage and the diagnosis model client).
func NewImageService(imageRepo portsrepo.ImageRepository, storage portssvc.MediaStorageSvcFacade, diagnoser portssvc.DiagnosisSvcFacade) portssvc.ImageSvcFacade {
	return &imageService{
		imageRepo: imageRepo,
		storage:   storage,
		diagnoser: diagnoser,
	}
}

var _ portssvc.ImageSvcFacade = (*imageService)(nil)

// UploadAndScan runs the upload workflow strictly in order: validate the
// metadata, upload the bytes to object storage, request a diagnosis from the
// model, then persist the combined record. Validation failures return before
// any external call; a failure at any later stage aborts the request and
// nothing is persisted.
func (s *imageService) UploadAndScan(ctx context.Context, ownerID string, req dto.UploadImageRequest, imageBytes []byte, contentType string) (*domain.Image, *domain.Diagnosis, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, nil, fmt.Errorf("%w: title and description are required", apperrors.ErrValidation)
	}
	if len(imageBytes) == 0 {
		return nil, nil, fmt.Errorf("%w: image file is required", apperrors.ErrValidation)
	}

	imageURL, err := s.storage.Upload(ctx, bytes.NewReader(imageBytes), int64(len(imageBytes)), contentType)
	if err != nil {
		logger.Error("image upload to object storage failed", "error", err)
		return nil, nil, err
	}

	diagnosis, err := s.diagnoser.Diagnose(ctx, imageBytes, contentType)
	if err != nil {
		logger.Error("diagnosis failed", "error", err, "imageURL", imageURL)
		return nil, nil, err
	}

	now := time.Now()
	image := domain.Image{
		ImageID:     uuid.NewString(),
		OwnerID:     ownerID,
		ImageURL:    imageURL,
		Title:       title,
		Description: description,
		Disease:     diagnosis.Disease,
		Confidence:  diagnosis.Confidence,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.imageRepo.SaveImage(ctx, image); err != nil {
		return nil, nil, fmt.Errorf("failed to persist image record: %w", err)
	}

	logger.Info("image scanned and persisted", "imageID", image.ImageID, "disease", image.Disease)
	return &image, diagnosis, nil
}

// ListImages returns one page of the owner's records, newest first, along
// with the unpaginated total.
func (s *imageService) ListImages(ctx context.Context, ownerID string, page, limit int) (*domain.ImagePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.imageRepo.CountImagesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	offset := (page - 1) * limit
	images, err := s.imageRepo.FindImagesByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &domain.ImagePage{
		Images:      images,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalImages: total,
	}, nil
}

// GetImageByID fetches one record and enforces ownership. A record owned by
// someone else is a forbidden error, not a not-found, so the caller can
// distinguish a stale link from someone else's record.
func (s *imageService) GetImageByID(ctx context.Context, requesterID, imageID string) (*domain.Image, error) {
	image, err := s.imageRepo.FindImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}

	if image.OwnerID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	return image, nil
}

// DeleteImage removes a record after the same ownership check as reads.
func (s *imageService) DeleteImage(ctx context.Context, requesterID, imageID string) error {
	image, err := s.imageRepo.FindImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to fetch image for deletion: %w", err)
	}

	if image.OwnerID != requesterID {
		return apperrors.ErrForbidden
	}

	if err := s.imageRepo.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// GetDiseaseStats aggregates the owner's records by disease label.
func (s *imageService) GetDiseaseStats(ctx context.Context, ownerID string) (*domain.DiseaseStatsSummary, error) {
	stats, err := s.imageRepo.CountByDisease(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate disease stats: %w", err)
	}

	var total int64
	for _, stat := range stats {
		total += stat.Count
	}

	return &domain.DiseaseStatsSummary{
		Stats:       stats,
		TotalImages: total,
	}, nil
}
