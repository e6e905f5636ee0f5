package deeplink_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/deeplink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryParameters(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/reset?code=abc123&type=recovery")
	require.NoError(t, err)

	assert.Equal(t, "abc123", params.Code)
	assert.Equal(t, "recovery", params.Type)
	assert.True(t, params.HasCode())
	assert.True(t, params.IsRecovery())
	assert.False(t, params.HasTokenPair())
}

func TestParseFragmentParameters(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/reset#access_token=at-1&refresh_token=rt-1&type=recovery")
	require.NoError(t, err)

	assert.Equal(t, "at-1", params.AccessToken)
	assert.Equal(t, "rt-1", params.RefreshToken)
	assert.True(t, params.HasTokenPair())
	assert.True(t, params.IsRecovery())
}

func TestParseFragmentOverridesQuery(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/redirect?code=from-query&type=recovery#code=from-fragment")
	require.NoError(t, err)

	assert.Equal(t, "from-fragment", params.Code)
	// Keys only present in the query survive the merge.
	assert.Equal(t, "recovery", params.Type)
}

func TestParseErrorDescription(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/redirect?error_description=access+denied")
	require.NoError(t, err)

	assert.Equal(t, "access denied", params.ErrorDescription)
	assert.False(t, params.IsEmpty())
}

func TestParseDropsUnrecognizedParameters(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/redirect?foo=bar&utm_source=email")
	require.NoError(t, err)

	assert.True(t, params.IsEmpty())
}

func TestParseIsIdempotent(t *testing.T) {
	const raw = "http://127.0.0.1:43123/reset?code=abc123#type=recovery"

	first, err := deeplink.Parse(raw)
	require.NoError(t, err)
	second, err := deeplink.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseInvalidURL(t *testing.T) {
	_, err := deeplink.Parse("http://127.0.0.1:43123/%zz")
	require.Error(t, err)
}

func TestValuesRoundTrip(t *testing.T) {
	params, err := deeplink.Parse("http://127.0.0.1:43123/reset?code=abc123&type=recovery")
	require.NoError(t, err)

	assert.Equal(t, params, deeplink.FromValues(params.Values()))
}
