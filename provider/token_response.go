package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenResponse is the provider's token endpoint response, returned for the
// password, pkce and refresh_token grants.
type tokenResponse struct {
	// AccessToken is the JWT used to access protected resources.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds. A hint - the
	// authoritative expiry is the JWT "exp" claim.
	ExpiresIn int `json:"expires_in"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	// Rotates on each use.
	RefreshToken string `json:"refresh_token"`

	// User is included by the provider alongside the tokens.
	User *User `json:"user,omitempty"`
}

// session converts the raw token response into a Session. The user identity
// and expiry fall back to the access-token claims when the response omits
// them.
func (tr *tokenResponse) session(now time.Time) (*Session, error) {
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	sess := &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
	}
	if tr.ExpiresIn > 0 {
		sess.ExpiresAt = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	if tr.User != nil {
		sess.User = *tr.User
	}

	claims, err := parseAccessClaims(tr.AccessToken)
	if err == nil {
		if sess.User.ID == "" {
			sess.User.ID = claims.Subject
		}
		if sess.User.Email == "" {
			sess.User.Email = claims.Email
		}
		if sess.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
			sess.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	return sess, nil
}

// accessClaims are the claims the client reads out of the provider JWT.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// parseAccessClaims decodes the access token without verifying its signature.
// The client never grants anything based on these claims; they only label the
// session for display and expiry scheduling. Signature verification, when
// enabled, goes through Verifier.
func parseAccessClaims(accessToken string) (*accessClaims, error) {
	claims := &accessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("parseAccessClaims: %w", err)
	}
	return claims, nil
}
