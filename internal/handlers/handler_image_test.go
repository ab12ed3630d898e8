package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/handlers"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
	"github.com/cropdoctor/cropdoctor-backend/internal/utils"
)

// --- Mock ImageService ---
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadAndScan(ctx context.Context, ownerID string, req dto.UploadImageRequest, imageBytes []byte, contentType string) (*domain.Image, *domain.Diagnosis, error) {
	args := m.Called(ctx, ownerID, req, imageBytes, contentType)
	var image *domain.Image
	var diagnosis *domain.Diagnosis
	if args.Get(0) != nil {
		image = args.Get(0).(*domain.Image)
	}
	if args.Get(1) != nil {
		diagnosis = args.Get(1).(*domain.Diagnosis)
	}
	return image, diagnosis, args.Error(2)
}

func (m *MockImageService) ListImages(ctx context.Context, ownerID string, page, limit int) (*domain.ImagePage, error) {
	args := m.Called(ctx, ownerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImagePage), args.Error(1)
}

func (m *MockImageService) GetImageByID(ctx context.Context, requesterID, imageID string) (*domain.Image, error) {
	args := m.Called(ctx, requesterID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageService) DeleteImage(ctx context.Context, requesterID, imageID string) error {
	args := m.Called(ctx, requesterID, imageID)
	return args.Error(0)
}

func (m *MockImageService) GetDiseaseStats(ctx context.Context, ownerID string) (*domain.DiseaseStatsSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiseaseStatsSummary), args.Error(1)
}

var _ portssvc.ImageSvcFacade = (*MockImageService)(nil)

const testDemoUserID = "00000000-0000-0000-0000-000000000d30"

// --- Test Suite ---
type ImageHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockImageService *MockImageService
	cfg              *config.Config
}

func (suite *ImageHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:          "test-secret-key-that-is-long-enough",
		JWTIssuer:          "cropdoctor-test",
		MaxUploadSizeBytes: 10 << 20,
		DemoUserID:         testDemoUserID,
	}
	suite.mockImageService = new(MockImageService)

	h := handlers.NewImageHandler(suite.mockImageService, suite.cfg)

	suite.router = gin.New()

	images := suite.router.Group("/api/v1/images", middleware.AuthMiddleware(suite.cfg.JWTSecret))
	images.POST("/upload", h.Upload)
	images.GET("/user-images", h.ListUserImages)
	images.GET("/stats/diseases", h.DiseaseStats)
	images.GET("/:imageId", h.GetImage)
	images.DELETE("/:imageId", h.DeleteImage)

	demo := suite.router.Group("/api/v1/demo", middleware.DemoUser(suite.cfg.DemoUserID))
	demo.POST("/upload", h.Upload)
	demo.GET("/user-images", h.ListUserImages)
	demo.GET("/stats/diseases", h.DiseaseStats)
}

func TestImageHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ImageHandlerTestSuite))
}

func (suite *ImageHandlerTestSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *ImageHandlerTestSuite) multipartUpload(path, token, title, description string, imageBytes []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if title != "" {
		suite.Require().NoError(writer.WriteField("title", title))
	}
	if description != "" {
		suite.Require().NoError(writer.WriteField("description", description))
	}
	if imageBytes != nil {
		part, err := writer.CreateFormFile("image", "crop.jpg")
		suite.Require().NoError(err)
		_, err = part.Write(imageBytes)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ImageHandlerTestSuite) TestUpload_Created() {
	userID := uuid.NewString()
	imageBytes := []byte("fake-jpeg-bytes")
	persisted := &domain.Image{
		ImageID:  uuid.NewString(),
		OwnerID:  userID,
		ImageURL: "https://cdn.example.com/crops/abc.jpg",
		Title:    "North field",
		Disease:  "Leaf Rust",
	}
	diagnosis := &domain.Diagnosis{Disease: "Leaf Rust", Confidence: 91, Treatment: "Fungicide"}

	suite.mockImageService.On("UploadAndScan", mock.Anything, userID,
		dto.UploadImageRequest{Title: "North field", Description: "Spots"}, imageBytes, mock.AnythingOfType("string")).
		Return(persisted, diagnosis, nil).Once()

	w := suite.multipartUpload("/api/v1/images/upload", suite.generateTestToken(userID), "North field", "Spots", imageBytes)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.UploadImageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(persisted.ImageID, resp.Image.ImageID)
	suite.Equal("Leaf Rust", resp.Image.Disease)
	suite.Equal("Leaf Rust", resp.Diagnosis.Disease)
	suite.Equal("Fungicide", resp.Diagnosis.Treatment)
	suite.mockImageService.AssertExpectations(suite.T())
}

func (suite *ImageHandlerTestSuite) TestUpload_MissingTitle() {
	w := suite.multipartUpload("/api/v1/images/upload", suite.generateTestToken(uuid.NewString()), "", "Spots", []byte("bytes"))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockImageService.AssertNotCalled(suite.T(), "UploadAndScan",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImageHandlerTestSuite) TestUpload_MissingFile() {
	w := suite.multipartUpload("/api/v1/images/upload", suite.generateTestToken(uuid.NewString()), "Title", "Spots", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockImageService.AssertNotCalled(suite.T(), "UploadAndScan",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImageHandlerTestSuite) TestUpload_NoToken() {
	w := suite.multipartUpload("/api/v1/images/upload", "", "Title", "Spots", []byte("bytes"))
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ImageHandlerTestSuite) TestUpload_InferenceFailureIs500() {
	userID := uuid.NewString()
	suite.mockImageService.On("UploadAndScan", mock.Anything, userID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrInference).Once()

	w := suite.multipartUpload("/api/v1/images/upload", suite.generateTestToken(userID), "Title", "Spots", []byte("bytes"))

	suite.Equal(http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Success)
	suite.Equal("Failed to analyze image", resp.Message)
}

func (suite *ImageHandlerTestSuite) TestGetImage_CrossOwnerForbidden() {
	userID := uuid.NewString()
	imageID := uuid.NewString()
	suite.mockImageService.On("GetImageByID", mock.Anything, userID, imageID).
		Return(nil, apperrors.ErrForbidden).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/"+imageID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ImageHandlerTestSuite) TestDeleteImage_NotFound() {
	userID := uuid.NewString()
	imageID := uuid.NewString()
	suite.mockImageService.On("DeleteImage", mock.Anything, userID, imageID).
		Return(apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/images/"+imageID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ImageHandlerTestSuite) TestListUserImages_Paginated() {
	userID := uuid.NewString()
	page := &domain.ImagePage{
		Images:      []domain.Image{{ImageID: uuid.NewString(), OwnerID: userID, Disease: "Blight"}},
		CurrentPage: 2,
		TotalPages:  3,
		TotalImages: 21,
	}
	suite.mockImageService.On("ListImages", mock.Anything, userID, 2, 10).Return(page, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/user-images?page=2&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListImagesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.CurrentPage)
	suite.Equal(int64(21), resp.TotalImages)
	suite.Len(resp.Images, 1)
}

func (suite *ImageHandlerTestSuite) TestDiseaseStats() {
	userID := uuid.NewString()
	summary := &domain.DiseaseStatsSummary{
		Stats:       []domain.DiseaseStat{{Disease: "Leaf Rust", Count: 3}, {Disease: "Blight", Count: 1}},
		TotalImages: 4,
	}
	suite.mockImageService.On("GetDiseaseStats", mock.Anything, userID).Return(summary, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/stats/diseases", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DiseaseStatsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(4), resp.TotalImages)
	suite.Equal("Leaf Rust", resp.Stats[0].Disease)
}

func (suite *ImageHandlerTestSuite) TestDemoUpload_UsesSeededIdentity() {
	imageBytes := []byte("fake-jpeg-bytes")
	persisted := &domain.Image{ImageID: uuid.NewString(), OwnerID: testDemoUserID, Disease: "Healthy"}
	diagnosis := &domain.Diagnosis{Disease: "Healthy", Confidence: 99}

	suite.mockImageService.On("UploadAndScan", mock.Anything, testDemoUserID,
		mock.AnythingOfType("dto.UploadImageRequest"), imageBytes, mock.AnythingOfType("string")).
		Return(persisted, diagnosis, nil).Once()

	// No Authorization header on the demo surface.
	w := suite.multipartUpload("/api/v1/demo/upload", "", "Demo", "Demo upload", imageBytes)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockImageService.AssertExpectations(suite.T())
}

func (suite *ImageHandlerTestSuite) TestDemoStats_NoAuthRequired() {
	summary := &domain.DiseaseStatsSummary{Stats: []domain.DiseaseStat{}, TotalImages: 0}
	suite.mockImageService.On("GetDiseaseStats", mock.Anything, testDemoUserID).Return(summary, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/demo/stats/diseases", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}
