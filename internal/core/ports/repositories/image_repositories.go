package repositories

import (
	"context"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
)

// ImageRepository defines persistence operations for diagnosis records.
// Every query is scoped by owner at the service layer; the repository itself
// only guarantees single-row atomicity.
type ImageRepository interface {
	// SaveImage inserts a new record as a single atomic row write.
	SaveImage(ctx context.Context, image domain.Image) error

	// FindImageByID retrieves a record with its owner projection joined.
	// Returns apperrors.ErrNotFound when missing.
	FindImageByID(ctx context.Context, imageID string) (*domain.Image, error)

	// FindImagesByOwner retrieves one page of an owner's records, newest first,
	// with the owner projection joined.
	FindImagesByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Image, error)

	// CountImagesByOwner returns the unpaginated record count for an owner.
	CountImagesByOwner(ctx context.Context, ownerID string) (int64, error)

	// DeleteImage removes a record. Returns apperrors.ErrNotFound when no row
	// was deleted.
	DeleteImage(ctx context.Context, imageID string) error

	// CountByDisease groups an owner's records by disease label, sorted by
	// count descending.
	CountByDisease(ctx context.Context, ownerID string) ([]domain.DiseaseStat, error)
}
