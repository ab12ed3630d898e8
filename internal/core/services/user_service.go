package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates the user service over the given repository.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new account. Duplicate username or email surfaces as
// a validation failure; the password is stored only as a bcrypt hash.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.FullName == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email, fullName and password are required", apperrors.ErrValidation)
	}

	// Check both unique fields up front for a clean message; the unique
	// indexes still back this up against races.
	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", apperrors.ErrValidation)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrValidation)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: passwordHash,
		AvatarURL:    req.AvatarURL,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// AuthenticateUser resolves the identifier as username first, then email, and
// verifies the password. Every failure mode maps to the same unauthorized
// error so callers cannot probe which part was wrong.
func (s *userService) AuthenticateUser(ctx context.Context, usernameOrEmail, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, usernameOrEmail)
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = s.userRepo.FindUserByEmail(ctx, strings.ToLower(usernameOrEmail))
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local
// account. First sign-in creates a password-less account; a pre-existing
// account with the same email is linked instead.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	const provider = "google"

	user, err := s.userRepo.FindUserByProviderDetails(ctx, provider, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	email := strings.ToLower(info.Email)
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := time.Now()
	user = &domain.User{
		UserID:         uuid.NewString(),
		Username:       usernameFromEmail(email),
		Email:          email,
		FullName:       info.Name,
		AvatarURL:      info.Picture,
		AuthProvider:   provider,
		ProviderUserID: info.ID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Username collision with a different account; retry once with a
			// randomized suffix.
			user.Username = user.Username + "-" + uuid.NewString()[:8]
			if retryErr := s.userRepo.SaveUser(ctx, *user); retryErr != nil {
				return nil, fmt.Errorf("failed to create google user: %w", retryErr)
			}
			return user, nil
		}
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}

	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return fmt.Errorf("failed to look up user for password change: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperrors.ErrUnauthorized
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, newHash, time.Now()); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
