package navigation

import (
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

// Route is a screen path plus its parameters.
type Route struct {
	Path   string
	Params url.Values
}

// ChangeFunc observes route transitions.
type ChangeFunc func(Route)

// pendingTransition is a transition issued while a notification pass was
// running, held until the pass finishes.
type pendingTransition struct {
	route Route
	push  bool
}

// Router performs in-process screen transitions. Listeners are notified
// synchronously in registration order, and transitions are serialized: a
// replace issued from inside a listener runs after the current notification
// pass finishes.
type Router struct {
	mu        sync.Mutex
	current   Route
	history   []Route
	listeners map[int]ChangeFunc
	nextID    int
	notifying bool
	queued    []pendingTransition
	log       zerolog.Logger
}

// RouterOption modifies the Router.
type RouterOption func(*Router)

// WithLogger sets the router logger.
func WithLogger(log zerolog.Logger) RouterOption {
	return func(r *Router) {
		r.log = log
	}
}

// NewRouter creates a router positioned at the home route.
func NewRouter(options ...RouterOption) *Router {
	r := &Router{
		current:   Route{Path: RouteHome, Params: url.Values{}},
		listeners: make(map[int]ChangeFunc),
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Current returns the visible route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Replace transitions to path, replacing the current history entry's
// successor (back returns to the previous distinct screen). A nil params is
// treated as empty.
func (r *Router) Replace(path string, params url.Values) {
	if params == nil {
		params = url.Values{}
	}
	next := Route{Path: path, Params: params}

	r.mu.Lock()
	if r.notifying {
		r.queued = append(r.queued, pendingTransition{route: next, push: true})
		r.mu.Unlock()
		return
	}
	r.transition(next, true)
}

// transition applies a route change and drains any transitions queued by
// listeners. Called with r.mu held; releases it.
func (r *Router) transition(next Route, push bool) {
	for {
		if push {
			r.history = append(r.history, r.current)
		}
		r.current = next
		r.notifying = true
		listeners := make([]ChangeFunc, 0, len(r.listeners))
		for i := 0; i < r.nextID; i++ {
			if fn, ok := r.listeners[i]; ok {
				listeners = append(listeners, fn)
			}
		}
		r.mu.Unlock()

		r.log.Debug().Str("path", next.Path).Msg("route change")
		for _, fn := range listeners {
			fn(next)
		}

		r.mu.Lock()
		r.notifying = false
		if len(r.queued) == 0 {
			r.mu.Unlock()
			return
		}
		pending := r.queued[0]
		r.queued = r.queued[1:]
		next, push = pending.route, pending.push
	}
}

// Back returns to the previous route, or stays put at the start of history.
func (r *Router) Back() {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]

	if r.notifying {
		r.queued = append(r.queued, pendingTransition{route: prev, push: false})
		r.mu.Unlock()
		return
	}
	r.transition(prev, false)
}

// Subscribe registers a route-change listener and returns its remover.
func (r *Router) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}
