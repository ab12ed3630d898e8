package services

import (
	"context"
	"time"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// RegisterUser creates a new account from a registration request.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// FindOrCreateGoogleUser resolves an externally authenticated Google
	// identity to a local account, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)

	// UpdateRefreshToken updates the refresh token details for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication.
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with username-or-email and password.
	AuthenticateUser(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)

	// ChangePassword verifies the old password and replaces it with the new one.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
