package authflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/provider/providerfakes"
	"github.com/jrsteele09/go-auth-client/provider/tokenstore/repofakes"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail         = "john.doe@example.com"
	testPassword      = "password123"
	testResetRedirect = "http://127.0.0.1:43123/reset"
)

// testFixture holds all test dependencies
type testFixture struct {
	client   *providerfakes.FakeClient
	tokens   *repofakes.FakeTokenRepo
	sessions *session.Store
	ctrl     *authflow.Controller
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	client := providerfakes.NewFakeClient()
	tokens := repofakes.NewFakeTokenRepo()

	sessions, err := session.New(client, tokens)
	require.NoError(t, err)

	ctrl, err := authflow.New(client, sessions, testResetRedirect)
	require.NoError(t, err)

	return &testFixture{client: client, tokens: tokens, sessions: sessions, ctrl: ctrl}
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

func TestSignInSuccessPublishesSession(t *testing.T) {
	f := setupTestFixture(t)
	f.client.PasswordSessions[testEmail+"|"+testPassword] = testSession("at-1")

	err := f.ctrl.SignIn(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	current := f.sessions.Current()
	require.NotNil(t, current)
	assert.Equal(t, "at-1", current.AccessToken)
}

func TestSignInEmptyFieldsNeverReachProvider(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignIn(context.Background(), "", "")
	require.ErrorIs(t, err, authflow.ErrValidation)
	assert.Equal(t, "Please enter your email and password.", err.Error())
	assert.Zero(t, f.client.SignInCalls)
}

func TestSignInProviderErrorVerbatim(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignIn(context.Background(), testEmail, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
	assert.Nil(t, f.sessions.Current())
}

func TestSignUpMismatchedPasswordsNeverReachProvider(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignUp(context.Background(), testEmail, testPassword, "other")
	require.ErrorIs(t, err, authflow.ErrValidation)
	assert.Equal(t, "Please make sure both passwords are the same.", err.Error())
	assert.Zero(t, f.client.SignUpCalls)
}

func TestSignUpEmptyFields(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignUp(context.Background(), testEmail, "", "")
	require.ErrorIs(t, err, authflow.ErrValidation)
	assert.Equal(t, "Please fill in all fields.", err.Error())
	assert.Zero(t, f.client.SignUpCalls)
}

func TestSignUpSuccessLeavesNoSession(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignUp(context.Background(), testEmail, testPassword, testPassword)
	require.NoError(t, err)

	assert.Equal(t, 1, f.client.SignUpCalls)
	assert.Nil(t, f.sessions.Current())
}

func TestRequestPasswordResetCarriesRedirect(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.RequestPasswordReset(context.Background(), testEmail)
	require.NoError(t, err)

	require.Len(t, f.client.ResetRequests, 1)
	assert.Equal(t, testEmail, f.client.ResetRequests[0].Email)
	assert.Equal(t, testResetRedirect, f.client.ResetRequests[0].RedirectTo)
}

func TestRequestPasswordResetEmptyEmail(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.RequestPasswordReset(context.Background(), "")
	require.ErrorIs(t, err, authflow.ErrValidation)
	assert.Empty(t, f.client.ResetRequests)
}

func TestSignOutClearsLocalSessionOnProviderError(t *testing.T) {
	f := setupTestFixture(t)
	f.sessions.Set(testSession("at-1"))
	f.client.SignOutErr = &provider.Error{StatusCode: 401, Message: "invalid token"}

	err := f.ctrl.SignOut(context.Background())
	require.Error(t, err)

	assert.Nil(t, f.sessions.Current())
	assert.Equal(t, []string{"at-1"}, f.client.SignOutTokens)
}

func TestSignOutWithoutSession(t *testing.T) {
	f := setupTestFixture(t)

	err := f.ctrl.SignOut(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.client.SignOutTokens)
}
