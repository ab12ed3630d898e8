package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

// ImageHandler handles the upload-and-diagnose workflow and record queries.
type ImageHandler struct {
	imageService  portssvc.ImageSvcFacade
	maxUploadSize int64
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(is portssvc.ImageSvcFacade, cfg *config.Config) *ImageHandler {
	return &ImageHandler{
		imageService:  is,
		maxUploadSize: cfg.MaxUploadSizeBytes,
	}
}

// registerImageRoutes sets up the image routes behind the auth middleware.
func registerImageRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewImageHandler(services.Image, cfg)

	images := rg.Group("/images")
	{
		images.POST("/upload", h.Upload)
		images.GET("/user-images", h.ListUserImages)
		images.GET("/stats/diseases", h.DiseaseStats)
		images.GET("/:imageId", h.GetImage)
		images.DELETE("/:imageId", h.DeleteImage)
	}
}

// Upload godoc
// @Summary Upload and diagnose an image
// @Description Accepts a multipart image with title and description, uploads it to object storage, diagnoses it and persists the record.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Crop image"
// @Param title formData string true "Record title"
// @Param description formData string true "Record description"
// @Success 201 {object} dto.UploadImageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /images/upload [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	var req dto.UploadImageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Title and description are required"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Failed to read image file"))
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Failed to read image file"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(imageBytes)
	}

	image, diagnosis, err := h.imageService.UploadAndScan(c.Request.Context(), userID, req, imageBytes, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadImageResponse{
		Image:     dto.ToImageResponse(image),
		Diagnosis: *diagnosis,
	})
}

// ListUserImages godoc
// @Summary List own image records
// @Description Returns one page of the caller's records, newest first.
// @Tags images
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.ListImagesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /images/user-images [get]
func (h *ImageHandler) ListUserImages(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var params dto.ListImagesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid pagination parameters"))
		return
	}

	page, err := h.imageService.ListImages(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListImagesResponse(page))
}

// GetImage godoc
// @Summary Get a single image record
// @Description Returns one record by ID. Records owned by other users are denied.
// @Tags images
// @Produce json
// @Param imageId path string true "Image ID"
// @Success 200 {object} dto.ImageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /images/{imageId} [get]
func (h *ImageHandler) GetImage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	image, err := h.imageService.GetImageByID(c.Request.Context(), userID, c.Param("imageId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToImageResponse(image))
}

// DeleteImage godoc
// @Summary Delete an image record
// @Description Deletes one record by ID. Records owned by other users are denied.
// @Tags images
// @Produce json
// @Param imageId path string true "Image ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /images/{imageId} [delete]
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	if err := h.imageService.DeleteImage(c.Request.Context(), userID, c.Param("imageId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DiseaseStats godoc
// @Summary Disease statistics
// @Description Aggregates the caller's records by disease label.
// @Tags images
// @Produce json
// @Success 200 {object} dto.DiseaseStatsResponse
// @Security BearerAuth
// @Router /images/stats/diseases [get]
func (h *ImageHandler) DiseaseStats(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	summary, err := h.imageService.GetDiseaseStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DiseaseStatsResponse{
		Stats:       summary.Stats,
		TotalImages: summary.TotalImages,
	})
}
