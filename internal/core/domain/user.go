package domain

import "time"

// User represents a registered account in the domain.
// PasswordHash is empty for accounts created through an external identity
// provider (Google sign-in).
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-"`
	AvatarURL    string `json:"avatarURL,omitempty"`

	AuthProvider   string `json:"-"`
	ProviderUserID string `json:"-"`

	// Refresh token state. Only the SHA256 hash of the issued token is stored;
	// a nil expiry means no refresh token is currently valid for this user.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
