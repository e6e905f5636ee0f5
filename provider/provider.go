// Package provider is the client-side contract with the hosted identity
// provider. The provider owns credentials end to end: password sign-in,
// sign-up with email confirmation, password-recovery emails, one-time code
// exchange, and session issuance. Nothing in this module re-implements any of
// that; this package only speaks the provider's REST surface.
package provider

import (
	"context"
	"time"
)

// User is the provider's view of an authenticated identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a provider-issued credential bound to a User. It is persisted
// and auto-refreshed by this package; orchestration code treats it as opaque.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token has passed its expiry. Sessions
// without a recorded expiry are treated as live.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// ExchangeOption modifies a code-for-session exchange request.
type ExchangeOption func(*exchangeOptions)

type exchangeOptions struct {
	codeVerifier string
}

// WithCodeVerifier attaches the PKCE verifier recorded when the authorization
// URL was built. Recovery-code exchanges do not carry one.
func WithCodeVerifier(verifier string) ExchangeOption {
	return func(o *exchangeOptions) {
		o.codeVerifier = verifier
	}
}

// VerifierFromOptions extracts the PKCE verifier from exchange options.
// Exposed for test doubles that need to record it.
func VerifierFromOptions(opts []ExchangeOption) string {
	options := exchangeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options.codeVerifier
}

// Client is the fixed external contract consumed by the auth flow. Every call
// is a single attempt; retries belong to the user.
type Client interface {
	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new user. No session is returned: the provider
	// requires email confirmation before one exists.
	SignUp(ctx context.Context, email, password string) (*User, error)

	// SendPasswordReset asks the provider to email a recovery link that
	// redirects back into the app at redirectTo.
	SendPasswordReset(ctx context.Context, email, redirectTo string) error

	// ExchangeCode trades a one-time code for a session. Codes are single-use:
	// a second exchange of the same code fails at the provider.
	ExchangeCode(ctx context.Context, code string, opts ...ExchangeOption) (*Session, error)

	// SetSession establishes a session directly from a token pair.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)

	// RefreshSession trades a refresh token for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)

	// UpdatePassword replaces the password of the user owning accessToken.
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error

	// SignOut revokes the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// GetUser fetches the user owning accessToken.
	GetUser(ctx context.Context, accessToken string) (*User, error)

	// AuthorizeURL builds the external-browser authorization URL for an OAuth
	// hand-off through the provider (PKCE, S256).
	AuthorizeURL(oauthProvider, redirectTo, state, codeVerifier string) string
}
