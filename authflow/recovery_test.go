package authflow_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecoveryCode = "abc123"

func TestRecoveryBeginWithCode(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
	err := rec.Begin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, authflow.RecoveryReady, rec.State())
	assert.True(t, rec.InRecoveryFlow())
	assert.True(t, rec.SuppressNavigation())

	current := f.sessions.Current()
	require.NotNil(t, current)
	assert.Equal(t, "at-recovery", current.AccessToken)
}

func TestRecoveryBeginInvalidCodeNoFallback(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: "expired"})
	err := rec.Begin(context.Background())
	require.ErrorIs(t, err, authflow.ErrInvalidLink)
	assert.Equal(t, "This password reset link is invalid or has expired. Please request a new one.", err.Error())
	assert.Equal(t, authflow.RecoveryFailed, rec.State())
	assert.True(t, authflow.Terminal(err))
}

func TestRecoveryBeginInvalidCodeWithExistingSession(t *testing.T) {
	f := setupTestFixture(t)
	f.sessions.Set(testSession("at-existing"))

	// Re-entering the screen after the code was already exchanged: the
	// exchange fails but the earlier session still authorizes the update.
	rec := f.ctrl.NewRecovery(deeplink.Params{Code: "already-used"})
	err := rec.Begin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, authflow.RecoveryReady, rec.State())
	assert.True(t, rec.SuppressNavigation())
}

func TestRecoveryBeginWithTokenPair(t *testing.T) {
	f := setupTestFixture(t)
	f.client.TokenSessions["rt-1"] = testSession("at-from-tokens")

	rec := f.ctrl.NewRecovery(deeplink.Params{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		Type:         deeplink.TypeRecovery,
	})
	err := rec.Begin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, authflow.RecoveryReady, rec.State())
	current := f.sessions.Current()
	require.NotNil(t, current)
	assert.Equal(t, "at-from-tokens", current.AccessToken)
}

func TestRecoveryBeginTokenPairRejected(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.ctrl.NewRecovery(deeplink.Params{
		AccessToken:  "at-1",
		RefreshToken: "bad",
		Type:         deeplink.TypeRecovery,
	})
	err := rec.Begin(context.Background())
	require.ErrorIs(t, err, authflow.ErrSessionError)
	assert.Equal(t, authflow.RecoveryFailed, rec.State())
	assert.True(t, authflow.Terminal(err))
}

func TestRecoveryBeginWithoutParameters(t *testing.T) {
	f := setupTestFixture(t)

	// No code and no token pair: nothing to verify, the submit step reports
	// the invalid request.
	rec := f.ctrl.NewRecovery(deeplink.Params{})
	err := rec.Begin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, authflow.RecoveryReady, rec.State())
	assert.False(t, rec.InRecoveryFlow())
	assert.False(t, rec.SuppressNavigation())
}

func TestRecoverySubmitValidation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		message  string
	}{
		{"empty fields", "", "", "Please enter both password fields."},
		{"mismatch", "newpass123", "other", "Passwords do not match."},
		{"too short", "short", "short", "Password must be at least 6 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")

			rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
			require.NoError(t, rec.Begin(context.Background()))

			err := rec.Submit(context.Background(), tt.password, tt.confirm)
			require.ErrorIs(t, err, authflow.ErrValidation)
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, f.client.PasswordUpdates)
		})
	}
}

func TestRecoverySubmitWithoutParameters(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.ctrl.NewRecovery(deeplink.Params{})
	require.NoError(t, rec.Begin(context.Background()))

	err := rec.Submit(context.Background(), "newpass123", "newpass123")
	require.ErrorIs(t, err, authflow.ErrInvalidLink)
	assert.Equal(t, authflow.RecoveryFailed, rec.State())
	assert.Empty(t, f.client.PasswordUpdates)
}

func TestRecoverySubmitWithoutSession(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
	require.NoError(t, rec.Begin(context.Background()))
	f.sessions.Clear()

	err := rec.Submit(context.Background(), "newpass123", "newpass123")
	require.ErrorIs(t, err, authflow.ErrInvalidLink)
	assert.Equal(t, authflow.RecoveryFailed, rec.State())
}

func TestRecoverySubmitSamePasswordIsRetryable(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")
	f.client.UpdatePasswordErr = &provider.Error{StatusCode: 422, Message: "New password should be different from the old password."}

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
	require.NoError(t, rec.Begin(context.Background()))

	err := rec.Submit(context.Background(), "newpass123", "newpass123")
	require.ErrorIs(t, err, authflow.ErrSamePassword)
	assert.Equal(t, "New password should be different from the old password.", err.Error())
	assert.Equal(t, authflow.RecoveryReady, rec.State())
	assert.False(t, authflow.Terminal(err))
	assert.False(t, rec.Completed())
}

func TestRecoverySubmitProviderErrorIsRetryable(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")
	f.client.UpdatePasswordErr = &provider.Error{StatusCode: 500, Message: "something went wrong"}

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
	require.NoError(t, rec.Begin(context.Background()))

	err := rec.Submit(context.Background(), "newpass123", "newpass123")
	require.Error(t, err)
	assert.Equal(t, "something went wrong", err.Error())
	assert.Equal(t, authflow.RecoveryReady, rec.State())
	assert.False(t, authflow.Terminal(err))
}

func TestRecoverySubmitSuccess(t *testing.T) {
	f := setupTestFixture(t)
	f.client.CodeSessions[testRecoveryCode] = testSession("at-recovery")

	rec := f.ctrl.NewRecovery(deeplink.Params{Code: testRecoveryCode})
	require.NoError(t, rec.Begin(context.Background()))

	err := rec.Submit(context.Background(), "newpass123", "newpass123")
	require.NoError(t, err)

	assert.Equal(t, authflow.RecoverySucceeded, rec.State())
	assert.True(t, rec.Completed())
	assert.False(t, rec.SuppressNavigation())
	assert.False(t, rec.Updating())

	require.Len(t, f.client.PasswordUpdates, 1)
	assert.Equal(t, "at-recovery", f.client.PasswordUpdates[0].AccessToken)
	assert.Equal(t, "newpass123", f.client.PasswordUpdates[0].NewPassword)

	// The recovery session is revoked once the password is set.
	assert.Nil(t, f.sessions.Current())
	assert.Equal(t, []string{"at-recovery"}, f.client.SignOutTokens)
}
