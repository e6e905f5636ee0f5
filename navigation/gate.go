package navigation

import (
	"fmt"

	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/rs/zerolog"
)

// Gate decides, on every evaluation, whether the visible screen should be the
// authenticated app or the sign-in flow. It is evaluated on session changes,
// focus changes, and route changes, in whatever order they fire: the decision
// is a pure function of (latest session value, current route, suppression
// flag), so repeated firing is a no-op once the screen is correct.
type Gate struct {
	router *Router
	log    zerolog.Logger
}

// GateOption modifies the Gate.
type GateOption func(*Gate)

// WithGateLogger sets the gate logger.
func WithGateLogger(log zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.log = log
	}
}

// NewGate creates a navigation gate over the router.
func NewGate(router *Router, options ...GateOption) (*Gate, error) {
	if router == nil {
		return nil, fmt.Errorf("[NewGate] router is required")
	}
	g := &Gate{router: router, log: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Evaluate reconciles the visible screen with the session state. suppress is
// the recovery-flow invariant: while a reset attempt is in flight and not
// completed, a session created by the verification exchange must not move the
// user off the reset screen. Returns whether a navigation was performed.
func (g *Gate) Evaluate(sess *provider.Session, suppress bool) bool {
	if suppress {
		return false
	}

	current := g.router.Current()

	if sess == nil {
		// Unauthenticated users stay within the sign-in flow. Already being
		// on /auth (or any sign-in flow screen) must not re-navigate, or the
		// gate would loop.
		if InSignInFlow(current.Path) {
			return false
		}
		g.log.Debug().Str("from", current.Path).Msg("no session, showing sign-in")
		g.router.Replace(RouteAuth, nil)
		return true
	}

	// Authenticated: the sign-in screen yields to the app. Other sign-in-flow
	// screens (redirect receiver, reset screens) drive their own exits.
	if current.Path == RouteAuth {
		g.log.Debug().Msg("session present, showing app")
		g.router.Replace(RouteHome, nil)
		return true
	}
	return false
}
