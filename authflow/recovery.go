package authflow

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/deeplink"
)

// MinPasswordLength is the provider's minimum accepted password length,
// enforced locally before any network call.
const MinPasswordLength = 6

// RecoveryState tracks a password-recovery attempt.
type RecoveryState string

const (
	RecoveryIdle       RecoveryState = "idle"
	RecoveryExchanging RecoveryState = "exchanging"
	RecoveryReady      RecoveryState = "ready"
	RecoverySubmitting RecoveryState = "submitting"
	RecoverySucceeded  RecoveryState = "succeeded"
	RecoveryFailed     RecoveryState = "failed"
)

// Recovery is the per-reset-attempt state machine:
//
//	Idle -> Exchanging -> Ready -> Submitting -> Succeeded | Failed
//
// Retryable failures return to Ready for another submission. ErrInvalidLink
// and ErrSessionError are terminal and force navigation back to sign-in.
//
// While InRecoveryFlow and not Completed, any session created as a side
// effect of the verification exchange must NOT navigate the user away from
// the reset screen: the session exists only so the password update can be
// authorized, not because the user signed in.
type Recovery struct {
	ctrl   *Controller
	params deeplink.Params

	mu             sync.Mutex
	state          RecoveryState
	inRecoveryFlow bool
	completed      bool
	updating       bool
}

// NewRecovery creates the recovery context for one reset-screen visit. The
// context dies with the screen: a fresh arrival builds a fresh Recovery.
func (c *Controller) NewRecovery(params deeplink.Params) *Recovery {
	return &Recovery{
		ctrl:   c,
		params: params,
		state:  RecoveryIdle,
	}
}

// Begin runs the arrival step: verify the reset link by exchanging its code
// (or token pair) for a session immediately on screen entry, not at submit
// time, so an invalid link surfaces before the user types a new password.
func (r *Recovery) Begin(ctx context.Context) error {
	r.setState(RecoveryExchanging)

	switch {
	case r.params.HasCode():
		r.setInRecoveryFlow(true)

		sess, err := r.ctrl.client.ExchangeCode(ctx, r.params.Code)
		if err != nil {
			// Re-entry after a prior successful exchange still has the
			// session; only fail when there is nothing to fall back on.
			if r.ctrl.sessions.Current() == nil {
				r.setState(RecoveryFailed)
				return flowError(ErrInvalidLink, "This password reset link is invalid or has expired. Please request a new one.")
			}
			r.ctrl.log.Debug().Err(err).Msg("recovery exchange failed, existing session found")
		} else {
			r.ctrl.sessions.Set(sess)
		}

	case r.params.IsRecovery() && r.params.HasTokenPair():
		r.setInRecoveryFlow(true)

		sess, err := r.ctrl.client.SetSession(ctx, r.params.AccessToken, r.params.RefreshToken)
		if err != nil {
			r.setState(RecoveryFailed)
			return flowError(ErrSessionError, "Unable to verify your reset request. Please request a new reset link.")
		}
		r.ctrl.sessions.Set(sess)
	}

	r.setState(RecoveryReady)
	return nil
}

// Submit validates and applies the new password. Local validation failures
// never reach the provider. A provider rejection classified as "same
// password" is retryable with warning severity; other provider failures are
// retryable with the provider's message intact. On success the temporary
// recovery session is signed out and Completed flips before any late
// session-change side effects can run.
func (r *Recovery) Submit(ctx context.Context, newPassword, confirm string) error {
	if newPassword == "" || confirm == "" {
		return flowError(ErrValidation, "Please enter both password fields.")
	}
	if newPassword != confirm {
		return flowError(ErrValidation, "Passwords do not match.")
	}
	if len(newPassword) < MinPasswordLength {
		return flowError(ErrValidation, "Password must be at least 6 characters.")
	}

	r.setState(RecoverySubmitting)
	r.setUpdating(true)
	defer r.setUpdating(false)

	if !r.params.HasCode() && !r.params.HasTokenPair() {
		r.setState(RecoveryFailed)
		return flowError(ErrInvalidLink, "Invalid password reset request. Please request a new reset link.")
	}

	sess := r.ctrl.sessions.Current()
	if sess == nil {
		r.setState(RecoveryFailed)
		return flowError(ErrInvalidLink, "This password reset link is invalid or has expired. Please request a new one.")
	}

	if err := r.ctrl.client.UpdatePassword(ctx, sess.AccessToken, newPassword); err != nil {
		if IsSamePasswordMessage(err.Error()) {
			r.ctrl.log.Warn().Msg("password update rejected: new password equals old password")
			r.setState(RecoveryReady)
			return flowError(ErrSamePassword, "New password should be different from the old password.")
		}
		r.ctrl.log.Info().Err(err).Msg("password update failed")
		r.setState(RecoveryReady)
		return err
	}

	r.setCompleted(true)
	r.setState(RecoverySucceeded)

	// The recovery session only existed to authorize the update.
	if err := r.ctrl.SignOut(ctx); err != nil {
		r.ctrl.log.Warn().Err(err).Msg("failed to sign out recovery session")
	}
	return nil
}

// SuppressNavigation reports whether session-change notifications must not
// move the user off the reset screen.
func (r *Recovery) SuppressNavigation() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inRecoveryFlow && !r.completed
}

func (r *Recovery) State() RecoveryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recovery) InRecoveryFlow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inRecoveryFlow
}

func (r *Recovery) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Updating reports whether a password update is in flight.
func (r *Recovery) Updating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updating
}

func (r *Recovery) setState(s RecoveryState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

func (r *Recovery) setInRecoveryFlow(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inRecoveryFlow = v
}

func (r *Recovery) setCompleted(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = v
}

func (r *Recovery) setUpdating(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updating = v
}
