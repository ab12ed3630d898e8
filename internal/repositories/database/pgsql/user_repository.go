package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
	"github.com/cropdoctor/cropdoctor-backend/internal/models"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

const uniqueViolationCode = "23505"

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:    d.UserID,
		Username:  d.Username,
		Email:     d.Email,
		FullName:  d.FullName,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.PasswordHash != "" {
		m.PasswordHash = &d.PasswordHash
	}
	if d.AvatarURL != "" {
		m.AvatarURL = &d.AvatarURL
	}
	if d.AuthProvider != "" {
		m.AuthProvider = &d.AuthProvider
	}
	if d.ProviderUserID != "" {
		m.ProviderUserID = &d.ProviderUserID
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = &d.RefreshTokenHash
	}
	m.RefreshTokenExpiryTime = d.RefreshTokenExpiryTime
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		FullName: m.FullName,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.PasswordHash != nil {
		d.PasswordHash = *m.PasswordHash
	}
	if m.AvatarURL != nil {
		d.AvatarURL = *m.AvatarURL
	}
	if m.AuthProvider != nil {
		d.AuthProvider = *m.AuthProvider
	}
	if m.ProviderUserID != nil {
		d.ProviderUserID = *m.ProviderUserID
	}
	if m.RefreshTokenHash != nil {
		d.RefreshTokenHash = *m.RefreshTokenHash
	}
	d.RefreshTokenExpiryTime = m.RefreshTokenExpiryTime
	return d
}

const userColumns = `user_id, username, email, full_name, password_hash, avatar_url,
		auth_provider, provider_user_id, refresh_token_hash, refresh_token_expiry_time,
		created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.PasswordHash,
		&m.AvatarURL,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	d := toDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (user_id, username, email, full_name, password_hash, avatar_url,
            auth_provider, provider_user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.FullName,
		m.PasswordHash,
		m.AvatarURL,
		m.AuthProvider,
		m.ProviderUserID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("username or email already taken: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND provider_user_id = $2;`
	user, err := scanUser(r.db.QueryRow(ctx, query, authProvider, providerUserID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by provider details: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	query := `
        UPDATE users
        SET password_hash = $1, updated_at = $2
        WHERE user_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, updatedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
        UPDATE users
        SET refresh_token_hash = $1, refresh_token_expiry_time = $2, updated_at = NOW()
        WHERE user_id = $3;
    `
	cmdTag, err := r.db.Exec(ctx, query, refreshTokenHash, refreshTokenExpiryTime, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL, updated_at = NOW()
        WHERE user_id = $1;
    `
	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
