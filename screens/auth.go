package screens

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/rs/zerolog"
)

// AuthScreen is the sign-in / sign-up entry screen. It submits credentials
// through the flow controller and renders failures verbatim; successful
// sign-ins navigate via the session store, not from here.
type AuthScreen struct {
	ctrl   *authflow.Controller
	oauth  *authflow.OAuthFlow
	router *navigation.Router
	view   View
	open   BrowserOpener
	log    zerolog.Logger
}

// NewAuthScreen creates the entry screen presenter.
func NewAuthScreen(ctrl *authflow.Controller, oauth *authflow.OAuthFlow, router *navigation.Router, view View, open BrowserOpener, log zerolog.Logger) (*AuthScreen, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("[NewAuthScreen] controller is required")
	}
	if oauth == nil {
		return nil, fmt.Errorf("[NewAuthScreen] oauth flow is required")
	}
	if router == nil {
		return nil, fmt.Errorf("[NewAuthScreen] router is required")
	}
	if view == nil {
		return nil, fmt.Errorf("[NewAuthScreen] view is required")
	}
	if open == nil {
		return nil, fmt.Errorf("[NewAuthScreen] browser opener is required")
	}
	return &AuthScreen{ctrl: ctrl, oauth: oauth, router: router, view: view, open: open, log: log}, nil
}

func (s *AuthScreen) Path() string { return navigation.RouteAuth }

// OnEnter shows the one-time "password updated" confirmation when the reset
// flow forwarded here with reset=1. The parameter is stripped immediately so
// re-renders of the same screen cannot show the modal twice.
func (s *AuthScreen) OnEnter(_ context.Context, params url.Values) {
	if params.Get(navigation.ParamReset) == "1" {
		s.router.Replace(navigation.RouteAuth, nil)
		s.view.ShowModal(authflow.SuccessModal("Success", "Your password has been updated. Please sign in with your new password."), nil)
		return
	}
	s.view.SetStatus("Sign in or create an account")
}

func (s *AuthScreen) OnLeave() {}

// SubmitSignIn attempts a password sign-in. A success needs no action here:
// the session change moves the user into the app.
func (s *AuthScreen) SubmitSignIn(ctx context.Context, email, password string) {
	s.view.SetStatus("Signing in...")
	if err := s.ctrl.SignIn(ctx, email, password); err != nil {
		s.view.SetStatus("")
		s.view.ShowModal(authflow.ErrorModal("Sign In Failed", err.Error()), nil)
		return
	}
	s.view.SetStatus("Signed in")
}

// SubmitSignUp registers an account and, on success, tells the user to check
// their inbox; the provider withholds the session until the email is
// confirmed.
func (s *AuthScreen) SubmitSignUp(ctx context.Context, email, password, confirm string) {
	s.view.SetStatus("Creating account...")
	if err := s.ctrl.SignUp(ctx, email, password, confirm); err != nil {
		s.view.SetStatus("")
		s.view.ShowModal(authflow.ErrorModal("Sign Up Failed", err.Error()), nil)
		return
	}
	s.view.SetStatus("")
	s.view.ShowModal(authflow.SuccessModal("Verify Your Email", "We've sent you a confirmation email. Please verify your address, then sign in."), nil)
}

// StartOAuth opens the provider's authorization page in the external browser.
// The redirect receiver screen finishes the flow when the browser returns.
func (s *AuthScreen) StartOAuth(oauthProvider string) {
	authURL, err := s.oauth.Start(oauthProvider)
	if err != nil {
		s.view.ShowModal(authflow.ErrorModal("Sign In Failed", err.Error()), nil)
		return
	}
	if err := s.open(authURL); err != nil {
		s.log.Warn().Err(err).Msg("failed to open browser")
		s.view.ShowModal(authflow.ErrorModal("Sign In Failed", "Could not open the browser. Please try again."), nil)
		return
	}
	s.view.SetStatus("Waiting for the browser...")
}

// ShowForgotPassword moves to the reset-request screen.
func (s *AuthScreen) ShowForgotPassword() {
	s.router.Replace(navigation.RouteForgotPassword, nil)
}
