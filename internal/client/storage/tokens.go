package storage

import "context"

//go:generate moq -out tokenstorage_mock.go . TokenStorage

// TokenStorage defines interface for storing the token pair on client.
// Invariant: access and refresh tokens are written and cleared together,
// only SaveAccessToken rewrites a single token (after refresh).
type TokenStorage interface {
	// SaveTokens stores both tokens in a single transaction
	SaveTokens(ctx context.Context, tokens *TokenData) error

	// SaveAccessToken rewrites the access token of an existing pair
	// Returns ErrTokensNotFound if no pair is stored
	SaveAccessToken(ctx context.Context, accessToken string) error

	// GetTokens retrieves the stored pair as-is
	// Returns ErrTokensNotFound if no pair is stored
	GetTokens(ctx context.Context) (*TokenData, error)

	// DeleteTokens removes both tokens (logout, failed refresh)
	DeleteTokens(ctx context.Context) error
}

// TokenData represents the token pair in storage.
// Tokens may be stored encrypted (base64 ciphertext), see session.Vault.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
