package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
	"github.com/cropdoctor/cropdoctor-backend/internal/utils"
)

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
// It requires access to application configuration (for secrets and expiry times)
// and the user service (to resolve and check stored refresh-token hashes).
type tokenService struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:         cfg,
		userService: userService,
	}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new refresh token for the given user: a JWT
// signed with the dedicated refresh secret. The caller persists its SHA256
// hash so that rotation invalidates every previously issued token.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	refreshToken, err := utils.GenerateJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return refreshToken, expiryTime, nil
}

// ValidateAndParseRefreshToken validates a refresh token string and returns the
// associated user. The token must carry a valid signature, resolve to an
// existing user, and hash-match the single token currently stored for that
// user; a mismatch means the token was rotated out or revoked.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, refreshTokenString string) (*domain.User, error) {
	claims, err := utils.ParseAndValidateJWT(refreshTokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}

	if !utils.CompareRefreshTokenHash(refreshTokenString, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
