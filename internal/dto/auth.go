package dto

import "time"

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthLoginRequest is sent by the trusted frontend after it completed an
// external provider sign-in.
type OAuthLoginRequest struct {
	Email             string  `json:"email" validate:"required,email,max=255"`
	Name              *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Image             *string `json:"image,omitempty" validate:"omitempty,url,max=2048"`
	Provider          string  `json:"provider" validate:"required,oauth_provider"`
	ProviderAccountID string  `json:"providerAccountId" validate:"required,max=255"`
}

// RefreshTokenRequest represents the token refresh request payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse represents the authentication token response
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AuthResponse is returned by register, login and oauth sign-in.
type AuthResponse struct {
	User   UserProfileResponse `json:"user"`
	Tokens TokenResponse       `json:"tokens"`
}
