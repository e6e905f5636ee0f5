package screens

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/jrsteele09/go-auth-client/session"
)

// HomeScreen is the authenticated app surface. It shows who is signed in and
// offers sign-out; clearing the session is what navigates back to sign-in.
type HomeScreen struct {
	ctrl     *authflow.Controller
	sessions *session.Store
	view     View
}

// NewHomeScreen creates the authenticated home presenter.
func NewHomeScreen(ctrl *authflow.Controller, sessions *session.Store, view View) (*HomeScreen, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("[NewHomeScreen] controller is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("[NewHomeScreen] session store is required")
	}
	if view == nil {
		return nil, fmt.Errorf("[NewHomeScreen] view is required")
	}
	return &HomeScreen{ctrl: ctrl, sessions: sessions, view: view}, nil
}

func (s *HomeScreen) Path() string { return navigation.RouteHome }

func (s *HomeScreen) OnEnter(_ context.Context, _ url.Values) {
	sess := s.sessions.Current()
	if sess == nil {
		s.view.SetStatus("")
		return
	}
	if sess.User.Email != "" {
		s.view.SetStatus("Signed in as " + sess.User.Email)
		return
	}
	s.view.SetStatus("Signed in")
}

func (s *HomeScreen) OnLeave() {}

// SignOut revokes and clears the session. The store's nil transition moves
// the user back to the sign-in screen.
func (s *HomeScreen) SignOut(ctx context.Context) {
	if err := s.ctrl.SignOut(ctx); err != nil {
		s.view.ShowModal(authflow.ErrorModal("Sign Out", err.Error()), nil)
	}
}
