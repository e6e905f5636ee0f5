package authflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/authflow/flowstate"
	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OAuthFlow runs the external-browser OAuth hand-off: build the provider's
// authorization URL with a fresh PKCE verifier, then trade the code carried
// by the returning deep link for a session.
//
// Complete is the only place in the app that may exchange an OAuth code. A
// one-time code exchanged twice fails at the provider, so the flow refuses a
// second attempt for the same code without making the call.
type OAuthFlow struct {
	ctrl        *Controller
	states      flowstate.Repo
	redirectURL string

	mu           sync.Mutex
	pendingState string
	exchanged    map[string]bool
}

// NewOAuthFlow creates the hand-off coordinator. redirectURL is where the
// browser returns after authorization and must be allow-listed with the
// provider.
func NewOAuthFlow(ctrl *Controller, states flowstate.Repo, redirectURL string) (*OAuthFlow, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("[NewOAuthFlow] controller is required")
	}
	if states == nil {
		return nil, fmt.Errorf("[NewOAuthFlow] flow state repo is required")
	}
	if redirectURL == "" {
		return nil, fmt.Errorf("[NewOAuthFlow] redirect URL is required")
	}
	return &OAuthFlow{
		ctrl:        ctrl,
		states:      states,
		redirectURL: redirectURL,
		exchanged:   make(map[string]bool),
	}, nil
}

// Start records fresh PKCE flow state and returns the authorization URL to
// open in the external browser. No exchange happens here: the redirect
// receiver completes the flow when the deep link arrives.
func (f *OAuthFlow) Start(oauthProvider string) (string, error) {
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()

	if err := f.states.Upsert(state, &flowstate.State{
		Provider:     oauthProvider,
		CodeVerifier: verifier,
		RedirectURI:  f.redirectURL,
		CreatedAt:    time.Now(),
	}); err != nil {
		return "", errors.Wrap(err, "[OAuthFlow Start] store flow state")
	}

	f.mu.Lock()
	f.pendingState = state
	f.mu.Unlock()

	authURL := f.ctrl.client.AuthorizeURL(oauthProvider, f.redirectURL, state, verifier)
	f.ctrl.log.Debug().Str("provider", oauthProvider).Msg("oauth hand-off started")
	return authURL, nil
}

// Complete handles the deep-link arrival from the browser. An error
// description from the provider or a missing code aborts without touching the
// provider. Otherwise the code is exchanged exactly once and the resulting
// session is published to the store.
func (f *OAuthFlow) Complete(ctx context.Context, params deeplink.Params) (*provider.Session, error) {
	if params.ErrorDescription != "" {
		return nil, flowError(ErrProviderDenied, params.ErrorDescription)
	}
	if !params.HasCode() {
		return nil, flowError(ErrMalformedRedirect, "Missing code in redirect URL.")
	}

	f.mu.Lock()
	if f.exchanged[params.Code] {
		f.mu.Unlock()
		return nil, flowError(ErrCodeAlreadyUsed, "This sign-in link was already used.")
	}
	// Mark before calling out: even a failed exchange consumes the code.
	f.exchanged[params.Code] = true
	pending := f.pendingState
	f.pendingState = ""
	f.mu.Unlock()

	var opts []provider.ExchangeOption
	if pending != "" {
		if st, err := f.states.Get(pending); err == nil {
			opts = append(opts, provider.WithCodeVerifier(st.CodeVerifier))
		}
		if err := f.states.Delete(pending); err != nil {
			f.ctrl.log.Warn().Err(err).Msg("failed to delete flow state")
		}
	}

	sess, err := f.ctrl.client.ExchangeCode(ctx, params.Code, opts...)
	if err != nil {
		f.ctrl.log.Info().Err(err).Msg("oauth code exchange failed")
		return nil, err
	}

	f.ctrl.sessions.Set(sess)
	return sess, nil
}
