package provider

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// KeySet validates raw JWT signatures. Satisfied by oidc.RemoteKeySet.
type KeySet interface {
	VerifySignature(ctx context.Context, jwt string) ([]byte, error)
}

// Verifier checks provider-issued access tokens against the provider's
// published JWKS. Used when restoring a persisted session at startup, so a
// tampered token on disk is never treated as an authenticated identity.
type Verifier struct {
	keys KeySet
}

// NewVerifier creates a Verifier backed by the provider's JWKS endpoint.
// Keys are fetched lazily and cached by the remote key set.
func NewVerifier(ctx context.Context, baseURL string) *Verifier {
	return &Verifier{
		keys: oidc.NewRemoteKeySet(ctx, baseURL+"/.well-known/jwks.json"),
	}
}

// NewVerifierWithKeySet creates a Verifier with an explicit key set
// (primarily for testing).
func NewVerifierWithKeySet(keys KeySet) *Verifier {
	return &Verifier{keys: keys}
}

// Verify checks the signature of a raw access token.
func (v *Verifier) Verify(ctx context.Context, accessToken string) error {
	if _, err := v.keys.VerifySignature(ctx, accessToken); err != nil {
		return interrors.Wrapf(interrors.ErrInvalidToken, "verifier: %s", err.Error())
	}
	return nil
}
