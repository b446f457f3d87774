package ports

import "context"

// TokenPair is the credential set issued by the identity provider.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
}

// IdentityGateway fronts the external identity provider. The provider owns
// usernames, emails and passwords; this service only stores the subject it
// returns. Token signatures are verified locally by the auth middleware,
// so the gateway is only consulted on the auth endpoints themselves.
type IdentityGateway interface {
	// CreateUser registers a user and returns the provider subject.
	// A username or email conflict surfaces as ErrEntityAlreadyExists.
	CreateUser(ctx context.Context, username, email, password string) (string, error)

	// PasswordGrant exchanges credentials for tokens. Bad credentials
	// surface as ErrUnauthorized.
	PasswordGrant(ctx context.Context, username, password string) (*TokenPair, error)

	// Refresh exchanges a refresh token for a fresh pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Revoke invalidates a refresh token. Logout treats failures as
	// best-effort and still succeeds locally.
	Revoke(ctx context.Context, refreshToken string) error

	// ResolveSubject looks up the provider subject for a username.
	ResolveSubject(ctx context.Context, username string) (string, error)
}
