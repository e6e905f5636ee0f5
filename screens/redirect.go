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

// RedirectScreen receives the OAuth deep link and finishes the hand-off. A
// successful exchange publishes the session and this screen exits to the app
// itself; the gate only handles exits from the sign-in screen.
type RedirectScreen struct {
	oauth  *authflow.OAuthFlow
	router *navigation.Router
	view   View
	log    zerolog.Logger

	mu    sync.Mutex
	alive bool
}

// NewRedirectScreen creates the OAuth redirect receiver presenter.
func NewRedirectScreen(oauth *authflow.OAuthFlow, router *navigation.Router, view View, log zerolog.Logger) (*RedirectScreen, error) {
	if oauth == nil {
		return nil, fmt.Errorf("[NewRedirectScreen] oauth flow is required")
	}
	if router == nil {
		return nil, fmt.Errorf("[NewRedirectScreen] router is required")
	}
	if view == nil {
		return nil, fmt.Errorf("[NewRedirectScreen] view is required")
	}
	return &RedirectScreen{oauth: oauth, router: router, view: view, log: log}, nil
}

func (s *RedirectScreen) Path() string { return navigation.RouteRedirect }

func (s *RedirectScreen) OnEnter(ctx context.Context, params url.Values) {
	s.mu.Lock()
	s.alive = true
	s.mu.Unlock()

	p := deeplink.FromValues(params)
	s.view.SetStatus("Completing sign-in...")

	go func() {
		_, err := s.oauth.Complete(ctx, p)

		s.mu.Lock()
		alive := s.alive
		s.mu.Unlock()
		if !alive {
			return
		}

		if err != nil {
			s.view.SetStatus("Error: " + err.Error())
			title := "Sign In Failed"
			if errors.Is(err, authflow.ErrCodeAlreadyUsed) || errors.Is(err, authflow.ErrMalformedRedirect) {
				title = "Sign In Error"
			}
			s.view.ShowModal(authflow.ErrorModal(title, err.Error()), func() {
				// No session: the gate bounces this to the sign-in screen.
				s.router.Replace(navigation.RouteHome, nil)
			})
			return
		}

		s.view.SetStatus("Signed in")
		s.router.Replace(navigation.RouteHome, nil)
	}()
}

func (s *RedirectScreen) OnLeave() {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()
}
