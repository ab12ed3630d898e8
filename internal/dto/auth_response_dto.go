package dto

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GoogleLoginURLResponse carries the Google consent-screen redirect URL.
type GoogleLoginURLResponse struct {
	URL string `json:"url"`
}

// ExchangeCodeRequest defines the JSON body for the Google code-exchange endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
