package screens_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/authflow/flowstate"
	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/provider/providerfakes"
	"github.com/jrsteele09/go-auth-client/provider/tokenstore/repofakes"
	"github.com/jrsteele09/go-auth-client/screens"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "john.doe@example.com"
	testPassword = "password123"
)

// fakeView records everything the screens render.
type fakeView struct {
	mu       sync.Mutex
	modals   []authflow.Modal
	statuses []string
}

func (v *fakeView) ShowModal(m authflow.Modal, onClose func()) {
	v.mu.Lock()
	v.modals = append(v.modals, m)
	v.mu.Unlock()
	if onClose != nil {
		onClose()
	}
}

func (v *fakeView) SetStatus(status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, status)
}

func (v *fakeView) Modals() []authflow.Modal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]authflow.Modal(nil), v.modals...)
}

func (v *fakeView) ModalCount(severity authflow.Severity) int {
	count := 0
	for _, m := range v.Modals() {
		if m.Severity == severity {
			count++
		}
	}
	return count
}

func (v *fakeView) LastStatus() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return ""
	}
	return v.statuses[len(v.statuses)-1]
}

// testFixture wires the full screen stack over fakes.
type testFixture struct {
	client   *providerfakes.FakeClient
	sessions *session.Store
	ctrl     *authflow.Controller
	oauth    *authflow.OAuthFlow
	router   *navigation.Router
	view     *fakeView
	manager  *screens.Manager

	authScreen   *screens.AuthScreen
	forgotScreen *screens.ForgotPasswordScreen
	resetScreen  *screens.ResetPasswordScreen
	homeScreen   *screens.HomeScreen

	openedURLs []string
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		client: providerfakes.NewFakeClient(),
		view:   &fakeView{},
		router: navigation.NewRouter(),
	}

	sessions, err := session.New(f.client, repofakes.NewFakeTokenRepo())
	require.NoError(t, err)
	f.sessions = sessions

	ctrl, err := authflow.New(f.client, sessions, "http://127.0.0.1:43123/reset")
	require.NoError(t, err)
	f.ctrl = ctrl

	oauth, err := authflow.NewOAuthFlow(ctrl, flowstate.NewInMemoryRepo(), "http://127.0.0.1:43123/redirect")
	require.NoError(t, err)
	f.oauth = oauth

	gate, err := navigation.NewGate(f.router)
	require.NoError(t, err)

	manager, err := screens.NewManager(f.router, gate, sessions)
	require.NoError(t, err)
	f.manager = manager

	opener := func(u string) error {
		f.openedURLs = append(f.openedURLs, u)
		return nil
	}

	f.authScreen, err = screens.NewAuthScreen(ctrl, oauth, f.router, f.view, opener, zerolog.Nop())
	require.NoError(t, err)
	f.forgotScreen, err = screens.NewForgotPasswordScreen(ctrl, f.router, f.view)
	require.NoError(t, err)
	resetLanding, err := screens.NewResetScreen(f.router)
	require.NoError(t, err)
	f.resetScreen, err = screens.NewResetPasswordScreen(ctrl, f.router, f.view, zerolog.Nop())
	require.NoError(t, err)
	redirectScreen, err := screens.NewRedirectScreen(oauth, f.router, f.view, zerolog.Nop())
	require.NoError(t, err)
	f.homeScreen, err = screens.NewHomeScreen(ctrl, sessions, f.view)
	require.NoError(t, err)

	manager.Register(f.authScreen)
	manager.Register(f.forgotScreen)
	manager.Register(resetLanding)
	manager.Register(f.resetScreen)
	manager.Register(redirectScreen)
	manager.Register(f.homeScreen)

	manager.Start(context.Background())
	t.Cleanup(manager.Stop)
	return f
}

func testSession(accessToken string) *provider.Session {
	return &provider.Session{
		AccessToken:  accessToken,
		RefreshToken: "rt-" + accessToken,
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         provider.User{ID: "user-1", Email: testEmail},
	}
}

func TestStartWithoutSessionShowsSignIn(t *testing.T) {
	f := setupTestFixture(t)

	assert.Equal(t, navigation.RouteAuth, f.router.Current().Path)
	assert.Equal(t, f.authScreen, f.manager.Active())
}

func TestSignInSuccessNavigatesHome(t *testing.T) {
	f := setupTestFixture(t)
	f.client.PasswordSessions[testEmail+"|"+testPassword] = testSession("at-1")

	f.authScreen.SubmitSignIn(context.Background(), testEmail, testPassword)

	assert.Equal(t, navigation.RouteHome, f.router.Current().Path)
	assert.Equal(t, f.homeScreen, f.manager.Active())
	assert.Equal(t, "Signed in as "+testEmail, f.view.LastStatus())
}

func TestSignInFailureStaysWithModal(t *testing.T) {
	f := setupTestFixture(t)

	f.authScreen.SubmitSignIn(context.Background(), testEmail, "wrong")

	assert.Equal(t, navigation.RouteAuth, f.router.Current().Path)
	modals := f.view.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "Invalid login credentials", modals[0].Message)
	assert.Equal(t, authflow.SeverityError, modals[0].Severity)
}

func TestSignUpMismatchNeverReachesProvider(t *testing.T) {
	f := setupTestFixture(t)

	f.authScreen.SubmitSignUp(context.Background(), testEmail, testPassword, "other")

	assert.Zero(t, f.client.SignUpCalls)
	modals := f.view.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "Please make sure both passwords are the same.", modals[0].Message)
}

func TestSignUpSuccessShowsVerifyNotice(t *testing.T) {
	f := setupTestFixture(t)

	f.authScreen.SubmitSignUp(context.Background(), testEmail, testPassword, testPassword)

	assert.Equal(t, navigation.RouteAuth, f.router.Current().Path)
	modals := f.view.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "Verify Your Email", modals[0].Title)
	assert.Equal(t, authflow.SeveritySuccess, modals[0].Severity)
	assert.Nil(t, f.sessions.Current())
}

func TestStartOAuthOpensBrowser(t *testing.T) {
	f := setupTestFixture(t)

	f.authScreen.StartOAuth("google")

	require.Len(t, f.openedURLs, 1)
	assert.Contains(t, f.openedURLs[0], "authorize")
}

func TestForgotPasswordFlow(t *testing.T) {
	f := setupTestFixture(t)

	f.authScreen.ShowForgotPassword()
	require.Equal(t, navigation.RouteForgotPassword, f.router.Current().Path)

	f.forgotScreen.Submit(context.Background(), testEmail)

	assert.True(t, f.forgotScreen.Sent())
	assert.Equal(t, "Check your email for a link to reset your password.", f.view.LastStatus())
	require.Len(t, f.client.ResetRequests, 1)
	assert.Equal(t, "http://127.0.0.1:43123/reset", f.client.ResetRequests[0].RedirectTo)
}

func TestPasswordResetDeepLinkFlow(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions["abc123"] = testSession("at-recovery")

	// The reset landing forwards the deep-link parameters onward.
	params := deeplink.Params{Code: "abc123"}
	f.router.Replace(navigation.RouteReset, params.Values())
	assert.Equal(t, navigation.RouteResetPassword, f.router.Current().Path)

	require.Eventually(t, func() bool {
		rec := f.resetScreen.Recovery()
		return rec != nil && rec.State() == authflow.RecoveryReady
	}, time.Second, 5*time.Millisecond)

	// The verification session exists but must not pull the user off the
	// reset screen.
	require.NotNil(t, f.sessions.Current())
	assert.Equal(t, navigation.RouteResetPassword, f.router.Current().Path)

	f.resetScreen.Submit(context.Background(), "newpass123", "newpass123")

	assert.Equal(t, navigation.RouteAuth, f.router.Current().Path)
	assert.Empty(t, f.router.Current().Params.Get(navigation.ParamReset))
	assert.Equal(t, 1, f.view.ModalCount(authflow.SeveritySuccess))
	assert.Equal(t, "Your password has been updated. Please sign in with your new password.", f.view.Modals()[0].Message)
	assert.Nil(t, f.sessions.Current())
	assert.Equal(t, 1, f.client.ExchangeCount("abc123"))
}

func TestPasswordResetSamePasswordStaysOnScreen(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions["abc123"] = testSession("at-recovery")
	f.client.UpdatePasswordErr = &provider.Error{StatusCode: 422, Message: "New password should be different from the old password."}

	params := deeplink.Params{Code: "abc123"}
	f.router.Replace(navigation.RouteReset, params.Values())
	require.Eventually(t, func() bool {
		rec := f.resetScreen.Recovery()
		return rec != nil && rec.State() == authflow.RecoveryReady
	}, time.Second, 5*time.Millisecond)

	f.resetScreen.Submit(context.Background(), "newpass123", "newpass123")

	assert.Equal(t, navigation.RouteResetPassword, f.router.Current().Path)
	assert.Equal(t, 1, f.view.ModalCount(authflow.SeverityWarning))
	rec := f.resetScreen.Recovery()
	assert.Equal(t, authflow.RecoveryReady, rec.State())
}

func TestPasswordResetInvalidLinkReturnsToSignIn(t *testing.T) {
	f := setupTestFixture(t)

	params := deeplink.Params{Code: "expired"}
	f.router.Replace(navigation.RouteReset, params.Values())

	// The terminal failure explains itself first, then closing the modal
	// lands on the sign-in screen.
	require.Eventually(t, func() bool {
		return f.router.Current().Path == navigation.RouteAuth
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, f.view.ModalCount(authflow.SeverityError))
	assert.Equal(t, "This password reset link is invalid or has expired. Please request a new one.", f.view.Modals()[0].Message)
	assert.Equal(t, f.authScreen, f.manager.Active())
}

func TestOAuthRedirectDeepLinkSignsIn(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions["oauth-code"] = testSession("at-oauth")
	f.authScreen.StartOAuth("google")

	params := deeplink.Params{Code: "oauth-code"}
	f.router.Replace(navigation.RouteRedirect, params.Values())

	require.Eventually(t, func() bool {
		return f.router.Current().Path == navigation.RouteHome
	}, time.Second, 5*time.Millisecond)

	require.NotNil(t, f.sessions.Current())
	assert.Equal(t, "at-oauth", f.sessions.Current().AccessToken)
	assert.Equal(t, 1, f.client.ExchangeCount("oauth-code"))
}

func TestOAuthRedirectDeniedReturnsToSignIn(t *testing.T) {
	f := setupTestFixture(t)

	params := deeplink.Params{ErrorDescription: "access denied"}
	f.router.Replace(navigation.RouteRedirect, params.Values())

	require.Eventually(t, func() bool {
		return f.router.Current().Path == navigation.RouteAuth
	}, time.Second, 5*time.Millisecond)

	require.GreaterOrEqual(t, f.view.ModalCount(authflow.SeverityError), 1)
	assert.Equal(t, "access denied", f.view.Modals()[0].Message)
	assert.Nil(t, f.sessions.Current())
}

func TestSignOutReturnsToSignIn(t *testing.T) {
	f := setupTestFixture(t)
	f.client.PasswordSessions[testEmail+"|"+testPassword] = testSession("at-1")
	f.authScreen.SubmitSignIn(context.Background(), testEmail, testPassword)
	require.Equal(t, navigation.RouteHome, f.router.Current().Path)

	f.homeScreen.SignOut(context.Background())

	assert.Equal(t, navigation.RouteAuth, f.router.Current().Path)
	assert.Nil(t, f.sessions.Current())
}

func TestResetConfirmationModalShowsOnce(t *testing.T) {
	f := setupTestFixture(t)

	f.router.Replace(navigation.RouteAuth, url.Values{navigation.ParamReset: []string{"1"}})

	assert.Equal(t, 1, f.view.ModalCount(authflow.SeveritySuccess))
	assert.Empty(t, f.router.Current().Params.Get(navigation.ParamReset))

	// Re-entering the screen without the flag shows nothing further.
	f.router.Replace(navigation.RouteAuth, nil)
	assert.Equal(t, 1, f.view.ModalCount(authflow.SeveritySuccess))
}
