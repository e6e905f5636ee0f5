package providerfakes

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/pkg/errors"
)

var _ provider.Client = (*FakeClient)(nil)

// ResetRequest records one SendPasswordReset call.
type ResetRequest struct {
	Email      string
	RedirectTo string
}

// PasswordUpdate records one UpdatePassword call.
type PasswordUpdate struct {
	AccessToken string
	NewPassword string
}

// FakeClient is a scriptable identity-provider double. Zero value is usable:
// all calls fail with "not configured" until results are scripted. Exchange
// calls are counted per code so tests can assert the single-exchange
// invariant.
type FakeClient struct {
	lock sync.Mutex

	// Scripted results
	PasswordSessions  map[string]*provider.Session // email|password -> session
	SignInErr         error
	SignUpUsers       map[string]*provider.User // email -> user
	SignUpErr         error
	ResetErr          error
	CodeSessions      map[string]*provider.Session // code -> session
	ExchangeErr       error
	TokenSessions     map[string]*provider.Session // refresh token -> session
	SetSessionErr     error
	RefreshErr        error
	UpdatePasswordErr error
	SignOutErr        error
	Users             map[string]*provider.User // access token -> user

	// Recorded calls
	SignInCalls       int
	SignUpCalls       int
	ResetRequests     []ResetRequest
	exchangeCounts    map[string]int
	ExchangeVerifiers map[string]string // code -> verifier supplied
	PasswordUpdates   []PasswordUpdate
	SignOutTokens     []string
	AuthorizeCalls    []url.Values
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		PasswordSessions:  make(map[string]*provider.Session),
		SignUpUsers:       make(map[string]*provider.User),
		CodeSessions:      make(map[string]*provider.Session),
		TokenSessions:     make(map[string]*provider.Session),
		Users:             make(map[string]*provider.User),
		exchangeCounts:    make(map[string]int),
		ExchangeVerifiers: make(map[string]string),
	}
}

// ExchangeCount returns how many times a code reached the provider. The
// single-exchange invariant demands this never exceeds 1 for any code.
func (f *FakeClient) ExchangeCount(code string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.exchangeCounts[code]
}

func (f *FakeClient) SignInWithPassword(_ context.Context, email, password string) (*provider.Session, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.SignInCalls++
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	sess, ok := f.PasswordSessions[email+"|"+password]
	if !ok {
		return nil, &provider.Error{StatusCode: 400, Message: "Invalid login credentials"}
	}
	return sess, nil
}

func (f *FakeClient) SignUp(_ context.Context, email, _ string) (*provider.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.SignUpCalls++
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	if user, ok := f.SignUpUsers[email]; ok {
		return user, nil
	}
	return &provider.User{ID: "user-" + email, Email: email}, nil
}

func (f *FakeClient) SendPasswordReset(_ context.Context, email, redirectTo string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ResetRequests = append(f.ResetRequests, ResetRequest{Email: email, RedirectTo: redirectTo})
	return f.ResetErr
}

func (f *FakeClient) ExchangeCode(_ context.Context, code string, opts ...provider.ExchangeOption) (*provider.Session, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.exchangeCounts[code]++

	// One-time codes: a second exchange fails at the provider even when the
	// first one succeeded.
	if f.exchangeCounts[code] > 1 {
		return nil, &provider.Error{StatusCode: 400, Message: "invalid flow state, no valid flow state found"}
	}
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	sess, ok := f.CodeSessions[code]
	if !ok {
		return nil, &provider.Error{StatusCode: 400, Message: "invalid flow state, no valid flow state found"}
	}

	f.ExchangeVerifiers[code] = provider.VerifierFromOptions(opts)
	return sess, nil
}

func (f *FakeClient) SetSession(_ context.Context, _, refreshToken string) (*provider.Session, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.SetSessionErr != nil {
		return nil, f.SetSessionErr
	}
	sess, ok := f.TokenSessions[refreshToken]
	if !ok {
		return nil, &provider.Error{StatusCode: 400, Message: "Invalid Refresh Token"}
	}
	return sess, nil
}

func (f *FakeClient) RefreshSession(_ context.Context, refreshToken string) (*provider.Session, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.RefreshErr != nil {
		return nil, f.RefreshErr
	}
	sess, ok := f.TokenSessions[refreshToken]
	if !ok {
		return nil, &provider.Error{StatusCode: 400, Message: "Invalid Refresh Token"}
	}
	return sess, nil
}

func (f *FakeClient) UpdatePassword(_ context.Context, accessToken, newPassword string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.PasswordUpdates = append(f.PasswordUpdates, PasswordUpdate{AccessToken: accessToken, NewPassword: newPassword})
	return f.UpdatePasswordErr
}

func (f *FakeClient) SignOut(_ context.Context, accessToken string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.SignOutTokens = append(f.SignOutTokens, accessToken)
	return f.SignOutErr
}

func (f *FakeClient) GetUser(_ context.Context, accessToken string) (*provider.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	user, ok := f.Users[accessToken]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (f *FakeClient) AuthorizeURL(oauthProvider, redirectTo, state, codeVerifier string) string {
	f.lock.Lock()
	defer f.lock.Unlock()
	v := url.Values{}
	v.Set("provider", oauthProvider)
	v.Set("redirect_to", redirectTo)
	v.Set("state", state)
	v.Set("code_verifier", codeVerifier)
	f.AuthorizeCalls = append(f.AuthorizeCalls, v)
	return fmt.Sprintf("https://provider.example/authorize?%s", v.Encode())
}
