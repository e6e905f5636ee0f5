// Package server runs the loopback HTTP listener that receives browser
// redirects from the identity provider. It is the desktop stand-in for a
// mobile deep-link scheme: the provider redirects the external browser to
// 127.0.0.1, the listener extracts the redirect parameters, and the in-app
// router is pointed at the matching screen.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/rs/zerolog"
)

// Listener serves the redirect endpoints on the loopback address.
type Listener struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	router *navigation.Router
	srv    *http.Server
	log    zerolog.Logger
}

// ListenerOption modifies the Listener.
type ListenerOption func(*Listener)

// WithListenerLogger sets the listener logger.
func WithListenerLogger(log zerolog.Logger) ListenerOption {
	return func(l *Listener) {
		l.log = log
	}
}

// New creates the loopback listener bound to the configured callback address.
func New(cfg config.Config, router *navigation.Router, options ...ListenerOption) (*Listener, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[server.New] config is required")
	}
	if router == nil {
		return nil, fmt.Errorf("[server.New] router is required")
	}

	l := &Listener{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		router: router,
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(l)
	}

	l.initRoutes()
	l.logRoutes()

	l.srv = &http.Server{Addr: cfg.GetCallbackAddr(), Handler: l.mux}
	return l, nil
}

func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mux.ServeHTTP(w, r)
}

// Start serves until Shutdown. http.ErrServerClosed is a clean stop.
func (l *Listener) Start() error {
	l.log.Info().Str("addr", l.srv.Addr).Msg("callback listener started")
	if err := l.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("[Listener Start] %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (l *Listener) Shutdown(ctx context.Context) error {
	if err := l.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("[Listener Shutdown] %w", err)
	}
	return nil
}

func (l *Listener) registerRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	l.routes = append(l.routes, pattern)
	l.mux.HandleFunc(pattern, handler)
}

func (l *Listener) logRoutes() {
	if l.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range l.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
