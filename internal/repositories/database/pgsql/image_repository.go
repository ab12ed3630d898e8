package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
	"github.com/cropdoctor/cropdoctor-backend/internal/models"
)

type PgxImageRepository struct {
	db *pgxpool.Pool
}

func newPgxImageRepository(db *pgxpool.Pool) portsrepo.ImageRepository {
	return &PgxImageRepository{db: db}
}

// Ensure PgxImageRepository implements portsrepo.ImageRepository
var _ portsrepo.ImageRepository = (*PgxImageRepository)(nil)

func toDomainImage(m models.Image) domain.Image {
	return domain.Image{
		ImageID:     m.ImageID,
		OwnerID:     m.OwnerID,
		ImageURL:    m.ImageURL,
		Title:       m.Title,
		Description: m.Description,
		Disease:     m.Disease,
		Confidence:  m.Confidence,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// imageWithOwnerColumns joins the reduced owner projection onto each record.
const imageWithOwnerColumns = `
		i.image_id, i.owner_id, i.image_url, i.title, i.description,
		i.disease, i.confidence, i.created_at, i.updated_at,
		u.username, u.full_name, u.avatar_url`

func scanImageWithOwner(row pgx.Row) (*domain.Image, error) {
	var m models.Image
	var ownerUsername, ownerFullName string
	var ownerAvatarURL *string
	err := row.Scan(
		&m.ImageID,
		&m.OwnerID,
		&m.ImageURL,
		&m.Title,
		&m.Description,
		&m.Disease,
		&m.Confidence,
		&m.CreatedAt,
		&m.UpdatedAt,
		&ownerUsername,
		&ownerFullName,
		&ownerAvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan image row: %w", err)
	}

	img := toDomainImage(m)
	img.Owner = &domain.OwnerProfile{
		UserID:   m.OwnerID,
		Username: ownerUsername,
		FullName: ownerFullName,
	}
	if ownerAvatarURL != nil {
		img.Owner.AvatarURL = *ownerAvatarURL
	}
	return &img, nil
}

func (r *PgxImageRepository) SaveImage(ctx context.Context, image domain.Image) error {
	query := `
        INSERT INTO images (image_id, owner_id, image_url, title, description, disease, confidence, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		image.ImageID,
		image.OwnerID,
		image.ImageURL,
		image.Title,
		image.Description,
		image.Disease,
		image.Confidence,
		image.CreatedAt,
		image.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save image record: %w", err)
	}
	return nil
}

func (r *PgxImageRepository) FindImageByID(ctx context.Context, imageID string) (*domain.Image, error) {
	query := `
		SELECT ` + imageWithOwnerColumns + `
		FROM images i
		JOIN users u ON u.user_id = i.owner_id
		WHERE i.image_id = $1;
	`
	img, err := scanImageWithOwner(r.db.QueryRow(ctx, query, imageID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find image by ID %s: %w", imageID, err)
	}
	return img, nil
}

func (r *PgxImageRepository) FindImagesByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Image, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + imageWithOwnerColumns + `
        FROM images i
        JOIN users u ON u.user_id = i.owner_id
        WHERE i.owner_id = $1
        ORDER BY i.created_at DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		img, err := scanImageWithOwner(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", rows.Err())
	}

	return images, nil
}

func (r *PgxImageRepository) CountImagesByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM images WHERE owner_id = $1;`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

func (r *PgxImageRepository) DeleteImage(ctx context.Context, imageID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM images WHERE image_id = $1;`, imageID)
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxImageRepository) CountByDisease(ctx context.Context, ownerID string) ([]domain.DiseaseStat, error) {
	query := `
        SELECT disease, COUNT(*) AS count
        FROM images
        WHERE owner_id = $1
        GROUP BY disease
        ORDER BY count DESC, disease ASC;
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query disease stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.DiseaseStat{}
	for rows.Next() {
		var s domain.DiseaseStat
		if err := rows.Scan(&s.Disease, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan disease stat row: %w", err)
		}
		stats = append(stats, s)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating disease stat rows: %w", rows.Err())
	}

	return stats, nil
}
