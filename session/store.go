// Package session owns the process-wide "current authenticated identity or
// none" state. Every screen reads it from here; no other component caches a
// session of its own.
package session

import (
	"context"
	"sync"
	"time"

	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/provider/tokenstore"
	"github.com/rs/zerolog"
)

// ChangeFunc receives every session transition. A nil session means signed
// out. Callbacks run synchronously in transition order and must not mutate
// the Store.
type ChangeFunc func(*provider.Session)

// Store caches the current session and fans out transitions to subscribers.
// There is one writer at a time (the auth flow), so a single mutex is enough
// to keep all subscribers observing the same ordered sequence.
type Store struct {
	client   provider.Client
	tokens   tokenstore.Repo
	verifier *provider.Verifier
	log      zerolog.Logger
	nowTime  func() time.Time // injectable for testing

	mu          sync.Mutex
	current     *provider.Session
	subscribers map[int]ChangeFunc
	nextSubID   int
}

// StoreOption modifies the Store.
type StoreOption func(*Store)

// WithVerifier enables signature verification of restored access tokens.
func WithVerifier(v *provider.Verifier) StoreOption {
	return func(s *Store) {
		s.verifier = v
	}
}

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// New creates a session store. The token repo holds the persisted session
// between app runs; the provider client refreshes it when it has expired.
func New(client provider.Client, tokens tokenstore.Repo, options ...StoreOption) (*Store, error) {
	if client == nil {
		return nil, interrors.Wrapf(interrors.ErrInternal, "[session.New] client is required")
	}
	if tokens == nil {
		return nil, interrors.Wrapf(interrors.ErrInternal, "[session.New] token repo is required")
	}

	store := &Store{
		client:      client,
		tokens:      tokens,
		log:         zerolog.Nop(),
		nowTime:     time.Now,
		subscribers: make(map[int]ChangeFunc),
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Current returns the most recently delivered session value, or nil.
func (s *Store) Current() *provider.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentUser performs a one-shot fetch of the signed-in user from the
// provider.
func (s *Store) CurrentUser(ctx context.Context) (*provider.User, error) {
	sess := s.Current()
	if sess == nil {
		return nil, interrors.ErrNoSession
	}
	return s.client.GetUser(ctx, sess.AccessToken)
}

// Subscribe registers a change callback and immediately delivers the current
// value, so late subscribers still observe the restored session (or nil) from
// app start. The returned function removes the subscription; calling it more
// than once is harmless.
func (s *Store) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Restore loads the persisted session, refreshing or discarding it as needed,
// and emits the result as the initial transition. Call once at app start
// before any navigation decisions.
func (s *Store) Restore(ctx context.Context) {
	persisted, err := s.tokens.Load()
	if err != nil {
		if !interrors.Is(err, interrors.ErrNotFound) {
			s.log.Warn().Err(err).Msg("failed to load persisted session")
		}
		s.apply(nil, false)
		return
	}

	if persisted.Expired(s.nowTime()) {
		refreshed, err := s.client.RefreshSession(ctx, persisted.RefreshToken)
		if err != nil {
			s.log.Info().Err(err).Msg("persisted session could not be refreshed")
			s.apply(nil, true)
			return
		}
		s.apply(refreshed, true)
		return
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, persisted.AccessToken); err != nil {
			s.log.Warn().Err(err).Msg("persisted session failed verification")
			s.apply(nil, true)
			return
		}
	}

	s.apply(persisted, false)
}

// Set records a new session, persists it, and notifies subscribers.
func (s *Store) Set(sess *provider.Session) {
	s.apply(sess, true)
}

// Clear drops the current session, removes the persisted copy, and notifies
// subscribers with nil.
func (s *Store) Clear() {
	s.apply(nil, true)
}

func (s *Store) apply(sess *provider.Session, persist bool) {
	if persist {
		if sess != nil {
			if err := s.tokens.Save(sess); err != nil {
				s.log.Warn().Err(err).Msg("failed to persist session")
			}
		} else {
			if err := s.tokens.Clear(); err != nil {
				s.log.Warn().Err(err).Msg("failed to clear persisted session")
			}
		}
	}

	s.mu.Lock()
	s.current = sess
	subscribers := make([]ChangeFunc, 0, len(s.subscribers))
	for i := 0; i < s.nextSubID; i++ {
		if fn, ok := s.subscribers[i]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	s.mu.Unlock()

	// Notify outside the lock so callbacks can read the store. There is one
	// writer at a time, so the sequence stays ordered.
	for _, fn := range subscribers {
		fn(sess)
	}
}
