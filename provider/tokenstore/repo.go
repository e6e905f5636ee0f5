// Package tokenstore persists the provider session across app restarts.
// Only the session layer touches it; screens and flows never read or write
// stored tokens directly.
package tokenstore

import "github.com/jrsteele09/go-auth-client/provider"

type Repo interface {
	// Save persists the session, replacing any previous one.
	Save(session *provider.Session) error

	// Load returns the persisted session, or internal/errors.ErrNotFound when
	// none exists.
	Load() (*provider.Session, error)

	// Clear removes the persisted session. Clearing an empty store is not an
	// error.
	Clear() error
}
