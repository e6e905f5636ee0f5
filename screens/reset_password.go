package screens

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/rs/zerolog"
)

// ResetPasswordScreen completes a password recovery. Each entry builds a
// fresh Recovery from the deep-link parameters and verifies the link
// immediately, so an expired link fails before the user types anything.
//
// Navigation away from a terminal failure is deferred until the user closes
// the explaining modal, and the deferred move is a single slot: it runs at
// most once, and leaving the screen drops it.
type ResetPasswordScreen struct {
	ctrl   *authflow.Controller
	router *navigation.Router
	view   View
	log    zerolog.Logger

	mu         sync.Mutex
	recovery   *authflow.Recovery
	alive      bool
	pendingNav func()
}

// NewResetPasswordScreen creates the recovery completion presenter.
func NewResetPasswordScreen(ctrl *authflow.Controller, router *navigation.Router, view View, log zerolog.Logger) (*ResetPasswordScreen, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("[NewResetPasswordScreen] controller is required")
	}
	if router == nil {
		return nil, fmt.Errorf("[NewResetPasswordScreen] router is required")
	}
	if view == nil {
		return nil, fmt.Errorf("[NewResetPasswordScreen] view is required")
	}
	return &ResetPasswordScreen{ctrl: ctrl, router: router, view: view, log: log}, nil
}

func (s *ResetPasswordScreen) Path() string { return navigation.RouteResetPassword }

// OnEnter starts link verification in the background. Results are applied
// only if this entry is still the live one when the exchange returns.
func (s *ResetPasswordScreen) OnEnter(ctx context.Context, params url.Values) {
	rec := s.ctrl.NewRecovery(deeplink.FromValues(params))

	s.mu.Lock()
	s.alive = true
	s.recovery = rec
	s.pendingNav = nil
	s.mu.Unlock()

	s.view.SetStatus("Verifying reset link...")

	go func() {
		err := rec.Begin(ctx)
		if !s.live(rec) {
			return
		}
		if err != nil {
			s.failTerminal(err)
			return
		}
		s.view.SetStatus("Enter your new password")
	}()
}

func (s *ResetPasswordScreen) OnLeave() {
	s.mu.Lock()
	s.alive = false
	s.pendingNav = nil
	s.mu.Unlock()
}

// Submit applies the new password. Success hands off to the sign-in screen
// with the one-time confirmation flag; the success modal itself is the
// sign-in screen's to show.
func (s *ResetPasswordScreen) Submit(ctx context.Context, newPassword, confirm string) {
	s.mu.Lock()
	rec := s.recovery
	s.mu.Unlock()
	if rec == nil {
		return
	}

	s.view.SetStatus("Updating password...")
	err := rec.Submit(ctx, newPassword, confirm)
	if !s.live(rec) {
		return
	}

	switch {
	case err == nil:
		s.view.SetStatus("")
		s.router.Replace(navigation.RouteAuth, url.Values{navigation.ParamReset: []string{"1"}})

	case errors.Is(err, authflow.ErrSamePassword):
		s.view.SetStatus("")
		s.view.ShowModal(authflow.WarningModal("Password Error", err.Error()), nil)

	case errors.Is(err, authflow.ErrValidation):
		s.view.SetStatus("")
		s.view.ShowModal(authflow.ErrorModal("Error", err.Error()), nil)

	case authflow.Terminal(err):
		s.failTerminal(err)

	default:
		s.view.SetStatus("")
		s.view.ShowModal(authflow.ErrorModal("Update Failed", err.Error()), nil)
	}
}

// SuppressNavigation defers to the active recovery: a session created by the
// verification exchange must not pull the user off this screen.
func (s *ResetPasswordScreen) SuppressNavigation() bool {
	s.mu.Lock()
	rec := s.recovery
	s.mu.Unlock()
	return rec != nil && rec.SuppressNavigation()
}

// Recovery returns the active recovery context, or nil before the first
// entry.
func (s *ResetPasswordScreen) Recovery() *authflow.Recovery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovery
}

// failTerminal shows the terminal error and arms the deferred move back to
// the sign-in screen, taken when the modal closes.
func (s *ResetPasswordScreen) failTerminal(err error) {
	s.mu.Lock()
	s.pendingNav = func() {
		s.router.Replace(navigation.RouteAuth, nil)
	}
	s.mu.Unlock()

	s.view.SetStatus("")
	s.view.ShowModal(authflow.ErrorModal("Reset Link Error", err.Error()), s.consumePendingNav)
}

func (s *ResetPasswordScreen) consumePendingNav() {
	s.mu.Lock()
	nav := s.pendingNav
	s.pendingNav = nil
	s.mu.Unlock()
	if nav != nil {
		nav()
	}
}

// live reports whether rec is still the recovery bound to a live screen
// entry.
func (s *ResetPasswordScreen) live(rec *authflow.Recovery) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive && s.recovery == rec
}
