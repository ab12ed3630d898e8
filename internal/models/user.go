package models

import "time"

// User is the database row model for the users table.
type User struct {
	UserID                 string     `db:"user_id"`
	Username               string     `db:"username"`
	Email                  string     `db:"email"`
	FullName               string     `db:"full_name"`
	PasswordHash           *string    `db:"password_hash"`
	AvatarURL              *string    `db:"avatar_url"`
	AuthProvider           *string    `db:"auth_provider"`
	ProviderUserID         *string    `db:"provider_user_id"`
	RefreshTokenHash       *string    `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}
