package dto

import (
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
)

// RegisterUserRequest defines the JSON body for user registration.
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"fullName" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	AvatarURL string `json:"avatarURL" binding:"omitempty,url"`
}

// LoginRequest defines the JSON body for login. Either username or email
// identifies the account; exactly one is required.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Identifier returns whichever of username/email the client supplied.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// ChangePasswordRequest defines the JSON body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// RefreshTokenRequest defines the optional JSON body for token refresh.
// The token may alternatively arrive in the refresh cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the public projection of a user; it never carries password
// or refresh-token material.
type UserResponse struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarURL,omitempty"`
}

// ToUserResponse converts a domain.User to its public projection.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}
