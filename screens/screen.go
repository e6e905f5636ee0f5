// Package screens holds the presenters for the app's entry screens. Screens
// bind user input and deep-link parameters to auth-flow calls and render the
// resulting status or error; they hold no session state of their own.
package screens

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
)

// Screen is one presenter. OnEnter runs when the router lands on the
// screen's path; OnLeave runs when it moves away. Handlers that resume after
// a provider call must re-check liveness before applying results.
type Screen interface {
	Path() string
	OnEnter(ctx context.Context, params url.Values)
	OnLeave()
}

// suppressor is implemented by screens that can veto session-driven
// navigation (the reset screen during an active recovery flow).
type suppressor interface {
	SuppressNavigation() bool
}

// Manager wires the router, the session store and the navigation gate to the
// registered screens. It re-evaluates the gate on every session change and
// every route change; the gate itself is idempotent, so the firing order of
// the two subscriptions does not matter.
type Manager struct {
	ctx      context.Context
	router   *navigation.Router
	gate     *navigation.Gate
	sessions *session.Store
	log      zerolog.Logger

	mu      sync.Mutex
	screens map[string]Screen
	active  Screen

	unsubRouter   func()
	unsubSessions func()
}

// ManagerOption modifies the Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the manager logger.
func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a screen manager.
func NewManager(router *navigation.Router, gate *navigation.Gate, sessions *session.Store, options ...ManagerOption) (*Manager, error) {
	if router == nil {
		return nil, fmt.Errorf("[NewManager] router is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("[NewManager] gate is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("[NewManager] session store is required")
	}

	m := &Manager{
		router:   router,
		gate:     gate,
		sessions: sessions,
		log:      zerolog.Nop(),
		screens:  make(map[string]Screen),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Register adds a screen. Must be called before Start.
func (m *Manager) Register(s Screen) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screens[s.Path()] = s
}

// Start subscribes to route and session changes and enters the current
// route's screen. The session subscription delivers the restored session
// immediately, so the first gate evaluation happens here too.
func (m *Manager) Start(ctx context.Context) {
	m.ctx = ctx

	m.unsubRouter = m.router.Subscribe(func(route navigation.Route) {
		m.switchTo(route)
		m.gate.Evaluate(m.sessions.Current(), m.suppress())
	})

	m.unsubSessions = m.sessions.Subscribe(func(sess *provider.Session) {
		m.gate.Evaluate(sess, m.suppress())
	})

	m.switchTo(m.router.Current())
	m.gate.Evaluate(m.sessions.Current(), m.suppress())
}

// Stop tears the subscriptions down exactly once and leaves the active
// screen.
func (m *Manager) Stop() {
	if m.unsubRouter != nil {
		m.unsubRouter()
	}
	if m.unsubSessions != nil {
		m.unsubSessions()
	}

	m.mu.Lock()
	active := m.active
	m.active = nil
	m.mu.Unlock()
	if active != nil {
		active.OnLeave()
	}
}

// Active returns the currently focused screen, or nil.
func (m *Manager) Active() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Manager) switchTo(route navigation.Route) {
	m.mu.Lock()
	next := m.screens[route.Path]
	prev := m.active
	if next == prev {
		m.mu.Unlock()
		if next != nil {
			next.OnEnter(m.ctx, route.Params)
		}
		return
	}
	m.active = next
	m.mu.Unlock()

	if prev != nil {
		prev.OnLeave()
	}
	if next != nil {
		m.log.Debug().Str("path", route.Path).Msg("screen focus")
		next.OnEnter(m.ctx, route.Params)
	}
}

func (m *Manager) suppress() bool {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()
	if s, ok := active.(suppressor); ok {
		return s.SuppressNavigation()
	}
	return false
}
