package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/authflow/flowstate"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/provider/tokenstore"
	"github.com/jrsteele09/go-auth-client/screens"
	"github.com/jrsteele09/go-auth-client/server"
	"github.com/jrsteele09/go-auth-client/session"
)

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New %w", err)
	}

	logger := newLogger(cfg)
	displayAppname(cfg.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	go func() {
		if err := app.listener.Start(); err != nil {
			logger.Error().Err(err).Msg("callback listener failed")
		}
	}()

	app.sessions.Restore(ctx)

	app.manager.Start(ctx)

	repl := newREPL(app, logger)
	go repl.loop(ctx)

	waitForStop(repl.done)

	app.manager.Stop()
	return shutdown(app.listener)
}

// app holds the wired components for the lifetime of the process.
type app struct {
	cfg      config.Config
	sessions *session.Store
	ctrl     *authflow.Controller
	oauth    *authflow.OAuthFlow
	router   *navigation.Router
	manager  *screens.Manager
	listener *server.Listener
	view     *terminalView

	authScreen   *screens.AuthScreen
	forgotScreen *screens.ForgotPasswordScreen
	resetScreen  *screens.ResetPasswordScreen
	homeScreen   *screens.HomeScreen
}

func buildApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	client, err := provider.NewHTTPClient(cfg.GetProviderURL(), cfg.GetProviderKey(), provider.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("provider.NewHTTPClient %w", err)
	}

	tokens, err := tokenstore.NewFileRepo("")
	if err != nil {
		return nil, fmt.Errorf("tokenstore.NewFileRepo %w", err)
	}

	verifier := provider.NewVerifier(ctx, cfg.GetProviderURL())

	sessions, err := session.New(client, tokens,
		session.WithVerifier(verifier),
		session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("session.New %w", err)
	}

	ctrl, err := authflow.New(client, sessions, cfg.GetResetRedirectURL(), authflow.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("authflow.New %w", err)
	}

	oauth, err := authflow.NewOAuthFlow(ctrl, flowstate.NewInMemoryRepo(), cfg.GetOAuthRedirectURL())
	if err != nil {
		return nil, fmt.Errorf("authflow.NewOAuthFlow %w", err)
	}

	router := navigation.NewRouter(navigation.WithLogger(logger))

	gate, err := navigation.NewGate(router, navigation.WithGateLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("navigation.NewGate %w", err)
	}

	view := newTerminalView()

	manager, err := screens.NewManager(router, gate, sessions, screens.WithManagerLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("screens.NewManager %w", err)
	}

	authScreen, err := screens.NewAuthScreen(ctrl, oauth, router, view, openBrowser, logger)
	if err != nil {
		return nil, err
	}
	forgotScreen, err := screens.NewForgotPasswordScreen(ctrl, router, view)
	if err != nil {
		return nil, err
	}
	resetLanding, err := screens.NewResetScreen(router)
	if err != nil {
		return nil, err
	}
	resetScreen, err := screens.NewResetPasswordScreen(ctrl, router, view, logger)
	if err != nil {
		return nil, err
	}
	redirectScreen, err := screens.NewRedirectScreen(oauth, router, view, logger)
	if err != nil {
		return nil, err
	}
	homeScreen, err := screens.NewHomeScreen(ctrl, sessions, view)
	if err != nil {
		return nil, err
	}

	manager.Register(authScreen)
	manager.Register(forgotScreen)
	manager.Register(resetLanding)
	manager.Register(resetScreen)
	manager.Register(redirectScreen)
	manager.Register(homeScreen)

	listener, err := server.New(cfg, router, server.WithListenerLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("server.New %w", err)
	}

	return &app{
		cfg:          cfg,
		sessions:     sessions,
		ctrl:         ctrl,
		oauth:        oauth,
		router:       router,
		manager:      manager,
		listener:     listener,
		view:         view,
		authScreen:   authScreen,
		forgotScreen: forgotScreen,
		resetScreen:  resetScreen,
		homeScreen:   homeScreen,
	}, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func waitForStop(done <-chan struct{}) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-done:
	}
}

func shutdown(listener *server.Listener) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := listener.Shutdown(ctx); err != nil {
		return fmt.Errorf("listener.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
