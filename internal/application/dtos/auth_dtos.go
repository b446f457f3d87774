// Package dtos carries the data shapes crossing the application boundary:
// commands and queries in, response DTOs out. JSON tags define the wire
// format of the HTTP surface.
package dtos

// ============================================
// Commands
// ============================================

// RegisterCommand registers a user with the identity provider.
type RegisterCommand struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginCommand exchanges credentials for tokens.
type LoginCommand struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshCommand exchanges a refresh token for a new access token.
type RefreshCommand struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutCommand revokes a refresh token, best effort.
type LogoutCommand struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ============================================
// Response DTOs
// ============================================

// RegisterResultDTO reports the created identity.
type RegisterResultDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// TokenDTO is the login response.
type TokenDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RefreshResultDTO is the refresh response. The refresh token itself is
// not rotated by this endpoint.
type RefreshResultDTO struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// MessageDTO wraps a plain confirmation message.
type MessageDTO struct {
	Message string `json:"message"`
}
