package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
	"github.com/cropdoctor/cropdoctor-backend/internal/utils"
)

// UserHandler handles registration, authentication and account requests.
type UserHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// registerPublicUserRoutes sets up the routes that require no access token.
// Login and register sit behind an IP rate limit.
func registerPublicUserRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewUserHandler(services.User, services.Token, cfg)

	rate, _ := limiter.NewRateFromFormatted("10-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	users := r.Group("/api/v1/users")
	{
		users.POST("/register", limitMiddleware, h.Register)
		users.POST("/login", limitMiddleware, h.Login)
		users.POST("/refresh-token", h.RefreshToken)
	}
}

// registerUserRoutes sets up the routes behind the auth middleware.
func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewUserHandler(services.User, services.Token, cfg)

	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
		users.POST("/logout", h.Logout)
		users.POST("/change-password", h.ChangePassword)
	}
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account.
// @Tags users
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, dto.BindingErrorMessage(err)))
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates with username or email and password, returning an access/refresh token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}
	if req.Identifier() == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Username or email is required"))
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Identifier(), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(c, user)
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

// Me godoc
// @Summary Current user profile
// @Description Returns the profile of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the stored refresh token and clears the refresh cookie.
// @Tags users
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshToken godoc
// @Summary Refresh token pair
// @Description Validates the refresh token (cookie or body) and rotates both tokens.
// @Tags users
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest false "Refresh token (optional when cookie is present)"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/refresh-token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshTokenString, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || refreshTokenString == "" {
		var req dto.RefreshTokenRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr == nil {
			refreshTokenString = req.RefreshToken
		}
	}
	if refreshTokenString == "" {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Refresh token required"))
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(c, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Description Verifies the old password and replaces it with the new one.
// @Tags users
// @Accept json
// @Produce json
// @Param change body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, dto.BindingErrorMessage(err)))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// issueTokenPair generates both tokens, persists the refresh token's hash so
// earlier refresh tokens stop working, and sets the refresh cookie.
func (h *UserHandler) issueTokenPair(c *gin.Context, user *domain.User) (string, string, error) {
	ctx := c.Request.Context()

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return "", "", err
	}

	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return "", "", err
	}

	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return "", "", err
	}

	maxAge := int(h.cfg.RefreshTokenExpiryDuration.Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, refreshToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	return accessToken, refreshToken, nil
}

func (h *UserHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}
