package deeplink

import "net/url"

// Recognized redirect parameter keys. Anything else carried on a redirect URL
// is dropped by the extractor.
const (
	KeyCode             = "code"
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyType             = "type"
	KeyErrorDescription = "error_description"
)

// TypeRecovery marks a redirect that carries a direct token pair from a
// password-recovery email.
const TypeRecovery = "recovery"

// Params is the flat set of recognized parameters extracted from a redirect
// URL. Absent parameters are empty strings.
type Params struct {
	Code             string
	AccessToken      string
	RefreshToken     string
	Type             string
	ErrorDescription string
}

func (p Params) HasCode() bool {
	return p.Code != ""
}

// HasTokenPair reports whether the redirect carried a direct session token
// pair instead of a one-time code.
func (p Params) HasTokenPair() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

func (p Params) IsRecovery() bool {
	return p.Type == TypeRecovery
}

func (p Params) IsEmpty() bool {
	return p == Params{}
}

// Values converts the parameters back into url.Values so they can be
// forwarded through the router to another screen.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Code != "" {
		v.Set(KeyCode, p.Code)
	}
	if p.AccessToken != "" {
		v.Set(KeyAccessToken, p.AccessToken)
	}
	if p.RefreshToken != "" {
		v.Set(KeyRefreshToken, p.RefreshToken)
	}
	if p.Type != "" {
		v.Set(KeyType, p.Type)
	}
	if p.ErrorDescription != "" {
		v.Set(KeyErrorDescription, p.ErrorDescription)
	}
	return v
}

// FromValues builds Params from already-parsed route parameters.
func FromValues(v url.Values) Params {
	return Params{
		Code:             v.Get(KeyCode),
		AccessToken:      v.Get(KeyAccessToken),
		RefreshToken:     v.Get(KeyRefreshToken),
		Type:             v.Get(KeyType),
		ErrorDescription: v.Get(KeyErrorDescription),
	}
}
