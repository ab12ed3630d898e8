package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

const oauthStateCookieName = "oauth_state"

// GoogleOAuthHandler handles the Google sign-in flow: producing the consent
// URL and exchanging the authorization code for an application token pair.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userHandler        *UserHandler
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(services *portssvc.ServiceContainer, cfg *config.Config) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuth,
		userHandler:        NewUserHandler(services.User, services.Token, cfg),
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes sets up the public Google sign-in routes.
func registerGoogleOAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services, cfg)

	google := r.Group("/api/v1/users/google")
	{
		google.GET("/login", h.LoginGoogle)
		google.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// LoginGoogle godoc
// @Summary Google sign-in URL
// @Description Returns the Google consent-screen URL and sets a CSRF state cookie.
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(oauthStateCookieName, state, 600, "/", "", h.cfg.IsProduction, true)
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL: h.googleOAuthService.GetGoogleLoginURL(ctx, state),
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange Google authorization code
// @Description Exchanges the authorization code for Google tokens, validates the ID token, finds or creates the user, and returns an application token pair.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Authorization code is required"))
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", "error", err)
		status := http.StatusBadGateway
		msg := "Failed to communicate with Google"
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			status = http.StatusBadRequest
			msg = "Invalid or expired authorization code"
		}
		c.JSON(status, dto.NewErrorResponse(status, msg))
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to retrieve ID token from Google"))
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", "error", err)
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Invalid Google ID token"))
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Essential user information missing from Google token"))
		return
	}

	user, err := h.userHandler.userService.FindOrCreateGoogleUser(ctx, &domain.GoogleUserInfo{
		ID:      payload.Subject,
		Email:   email,
		Name:    name,
		Picture: picture,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := h.userHandler.issueTokenPair(c, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.ToUserResponse(user),
	})
}
