// Package authflow orchestrates the client side of authentication: which
// provider operation to invoke for a given user action or deep-link arrival,
// and what the screens should show or navigate to afterwards. Each operation
// is a single attempt; retries are the user's to initiate.
package authflow

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
)

// Controller binds the identity provider to the session store. Successful
// sign-ins are reported to the store; the resulting session-change
// notification, not the controller, drives navigation.
type Controller struct {
	client           provider.Client
	sessions         *session.Store
	resetRedirectURL string
	log              zerolog.Logger
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// New initializes a Controller with required dependencies.
func New(client provider.Client, sessions *session.Store, resetRedirectURL string, options ...ControllerOption) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("[authflow.New] provider client is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("[authflow.New] session store is required")
	}
	if resetRedirectURL == "" {
		return nil, fmt.Errorf("[authflow.New] reset redirect URL is required")
	}

	ctrl := &Controller{
		client:           client,
		sessions:         sessions,
		resetRedirectURL: resetRedirectURL,
		log:              zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ctrl)
	}
	return ctrl, nil
}

// SignIn performs a password sign-in. On success the session store emits the
// change; callers take no navigation action of their own. Provider failures
// come back with their message intact for verbatim display.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return flowError(ErrValidation, "Please enter your email and password.")
	}

	sess, err := c.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.log.Info().Err(err).Str("email", email).Msg("sign-in failed")
		return err
	}

	c.sessions.Set(sess)
	return nil
}

// SignUp registers a new account. Validation failures short-circuit before
// any network call. Success yields no session: the provider requires email
// confirmation first, so the screen shows a "verify your email" notice.
func (c *Controller) SignUp(ctx context.Context, email, password, confirm string) error {
	if email == "" || password == "" || confirm == "" {
		return flowError(ErrValidation, "Please fill in all fields.")
	}
	if password != confirm {
		return flowError(ErrValidation, "Please make sure both passwords are the same.")
	}

	if _, err := c.client.SignUp(ctx, email, password); err != nil {
		c.log.Info().Err(err).Str("email", email).Msg("sign-up failed")
		return err
	}
	return nil
}

// RequestPasswordReset asks the provider to email a recovery link pointing at
// the app's reset deep link. No session is created or affected.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return flowError(ErrValidation, "Please enter your email address.")
	}

	if err := c.client.SendPasswordReset(ctx, email, c.resetRedirectURL); err != nil {
		c.log.Info().Err(err).Str("email", email).Msg("password reset request failed")
		return err
	}
	return nil
}

// SignOut revokes the current session with the provider and clears the local
// session either way; the store's nil transition drives navigation back to
// sign-in.
func (c *Controller) SignOut(ctx context.Context) error {
	current := c.sessions.Current()

	var err error
	if current != nil {
		err = c.client.SignOut(ctx, current.AccessToken)
		if err != nil {
			c.log.Warn().Err(err).Msg("provider sign-out failed, clearing local session anyway")
		}
	}

	c.sessions.Clear()
	return err
}
