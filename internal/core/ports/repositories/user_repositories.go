package repositories

import (
	"context"
	"time"

	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
)

// UserRepository defines persistence operations for users. Only the
// authentication layer mutates the refresh-token columns.
type UserRepository interface {
	// SaveUser inserts a new user. Returns apperrors.ErrDuplicate when the
	// username or email is already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID. Returns apperrors.ErrNotFound when missing.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user by external identity provider reference.
	FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken invalidates the stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}
