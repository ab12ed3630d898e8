package dto

import (
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
)

// UploadImageRequest carries the multipart form fields accompanying the image
// file on the upload-and-scan endpoint.
type UploadImageRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// ListImagesParams defines the pagination query parameters for listing a
// user's records.
type ListImagesParams struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// ImageResponse is the API projection of a persisted diagnosis record.
type ImageResponse struct {
	ImageID     string               `json:"imageID"`
	ImageURL    string               `json:"imageURL"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Disease     string               `json:"disease"`
	Confidence  float64              `json:"confidence"`
	Owner       *domain.OwnerProfile `json:"owner,omitempty"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
}

// UploadImageResponse combines the persisted record with the full diagnosis
// detail returned by the model.
type UploadImageResponse struct {
	Image     ImageResponse    `json:"image"`
	Diagnosis domain.Diagnosis `json:"diagnosis"`
}

// ListImagesResponse is one page of records.
type ListImagesResponse struct {
	Images      []ImageResponse `json:"images"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalImages int64           `json:"totalImages"`
}

// DiseaseStatsResponse is the aggregated per-disease count summary.
type DiseaseStatsResponse struct {
	Stats       []domain.DiseaseStat `json:"stats"`
	TotalImages int64                `json:"totalImages"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ToImageResponse converts a domain.Image to its API projection.
func ToImageResponse(img *domain.Image) ImageResponse {
	return ImageResponse{
		ImageID:     img.ImageID,
		ImageURL:    img.ImageURL,
		Title:       img.Title,
		Description: img.Description,
		Disease:     img.Disease,
		Confidence:  img.Confidence,
		Owner:       img.Owner,
		CreatedAt:   img.CreatedAt.Format(timeLayout),
		UpdatedAt:   img.UpdatedAt.Format(timeLayout),
	}
}

// ToListImagesResponse converts a domain.ImagePage to its API projection.
func ToListImagesResponse(page *domain.ImagePage) ListImagesResponse {
	images := make([]ImageResponse, len(page.Images))
	for i := range page.Images {
		images[i] = ToImageResponse(&page.Images[i])
	}
	return ListImagesResponse{
		Images:      images,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalImages: page.TotalImages,
	}
}
