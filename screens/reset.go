package screens

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/navigation"
)

// ResetScreen is the landing pad for the recovery deep link. It does no work
// of its own: it forwards every recognized parameter to the reset-password
// screen, which owns the verification and submission flow.
type ResetScreen struct {
	router *navigation.Router
}

// NewResetScreen creates the recovery landing presenter.
func NewResetScreen(router *navigation.Router) (*ResetScreen, error) {
	if router == nil {
		return nil, fmt.Errorf("[NewResetScreen] router is required")
	}
	return &ResetScreen{router: router}, nil
}

func (s *ResetScreen) Path() string { return navigation.RouteReset }

func (s *ResetScreen) OnEnter(_ context.Context, params url.Values) {
	p := deeplink.FromValues(params)
	s.router.Replace(navigation.RouteResetPassword, p.Values())
}

func (s *ResetScreen) OnLeave() {}
