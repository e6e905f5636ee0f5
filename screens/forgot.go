package screens

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/navigation"
)

// ForgotPasswordScreen requests a recovery email. After a successful request
// it flips into a sent state so the user sees the "check your email" notice
// instead of the form.
type ForgotPasswordScreen struct {
	ctrl   *authflow.Controller
	router *navigation.Router
	view   View

	mu   sync.Mutex
	sent bool
}

// NewForgotPasswordScreen creates the reset-request presenter.
func NewForgotPasswordScreen(ctrl *authflow.Controller, router *navigation.Router, view View) (*ForgotPasswordScreen, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("[NewForgotPasswordScreen] controller is required")
	}
	if router == nil {
		return nil, fmt.Errorf("[NewForgotPasswordScreen] router is required")
	}
	if view == nil {
		return nil, fmt.Errorf("[NewForgotPasswordScreen] view is required")
	}
	return &ForgotPasswordScreen{ctrl: ctrl, router: router, view: view}, nil
}

func (s *ForgotPasswordScreen) Path() string { return navigation.RouteForgotPassword }

func (s *ForgotPasswordScreen) OnEnter(_ context.Context, _ url.Values) {
	s.mu.Lock()
	s.sent = false
	s.mu.Unlock()
	s.view.SetStatus("Enter your email to receive a reset link")
}

func (s *ForgotPasswordScreen) OnLeave() {}

// Submit sends the reset request. Failures keep the form up for another try.
func (s *ForgotPasswordScreen) Submit(ctx context.Context, email string) {
	s.view.SetStatus("Sending reset email...")
	if err := s.ctrl.RequestPasswordReset(ctx, email); err != nil {
		s.view.SetStatus("")
		s.view.ShowModal(authflow.ErrorModal("Reset Failed", err.Error()), nil)
		return
	}

	s.mu.Lock()
	s.sent = true
	s.mu.Unlock()
	s.view.SetStatus("Check your email for a link to reset your password.")
}

// Sent reports whether the reset email went out this visit.
func (s *ForgotPasswordScreen) Sent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// BackToSignIn returns to the entry screen.
func (s *ForgotPasswordScreen) BackToSignIn() {
	s.router.Replace(navigation.RouteAuth, nil)
}
