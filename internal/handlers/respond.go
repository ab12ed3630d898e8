package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
)

// respondError is the single conversion point from service errors to HTTP
// responses. Sentinel errors map to their status; anything else is a 500 with
// a sanitized message so provider error bodies never reach clients.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, apperrors.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
		message = "Refresh token expired"
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		message = "Access denied"
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, apperrors.ErrUpload):
		message = "Failed to upload image"
	case errors.Is(err, apperrors.ErrInference):
		message = "Failed to analyze image"
	}

	if status == http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Request failed", "error", err)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, message))
}
