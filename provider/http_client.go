package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Error is a failed provider call. Message carries the provider's own wording
// and is surfaced to the user verbatim, so it must not be rewritten here.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// errorResponse covers the error payload shapes the provider uses across
// endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (er *errorResponse) message() string {
	switch {
	case er.Msg != "":
		return er.Msg
	case er.Message != "":
		return er.Message
	case er.ErrorDescription != "":
		return er.ErrorDescription
	case er.Error != "":
		return er.Error
	}
	return ""
}

// HTTPClient talks to a hosted identity provider over its REST surface.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
	nowTime    func() time.Time // injectable for testing
}

// HTTPClientOption modifies the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) HTTPClientOption {
	return func(c *HTTPClient) {
		c.nowTime = nowFunc
	}
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a provider client for the service at baseURL. The
// apiKey is the public (anon) key sent with every request.
func NewHTTPClient(baseURL, apiKey string, options ...HTTPClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("[NewHTTPClient] baseURL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("[NewHTTPClient] apiKey is required")
	}

	client := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &tr); err != nil {
		return nil, err
	}
	return tr.session(c.nowTime())
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

func (c *HTTPClient) ExchangeCode(ctx context.Context, code string, opts ...ExchangeOption) (*Session, error) {
	options := exchangeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	body := map[string]string{"auth_code": code}
	if options.codeVerifier != "" {
		body["code_verifier"] = options.codeVerifier
	}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", "", body, &tr); err != nil {
		return nil, err
	}
	return tr.session(c.nowTime())
}

func (c *HTTPClient) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	// The provider has no dedicated set-session endpoint; establishing a
	// session from a token pair means refreshing it, which also validates the
	// pair and rotates the refresh token.
	sess, err := c.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *HTTPClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &tr); err != nil {
		return nil, err
	}
	return tr.session(c.nowTime())
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "/user", accessToken, body, nil)
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *HTTPClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthorizeURL builds the provider's /authorize URL for an external-browser
// OAuth hand-off using the standard oauth2 library with an S256 PKCE
// challenge derived from codeVerifier.
func (c *HTTPClient) AuthorizeURL(oauthProvider, redirectTo, state, codeVerifier string) string {
	conf := &oauth2.Config{
		ClientID: c.apiKey,
		Endpoint: oauth2.Endpoint{AuthURL: c.baseURL + "/authorize"},
	}
	return conf.AuthCodeURL(state,
		oauth2.S256ChallengeOption(codeVerifier),
		oauth2.SetAuthURLParam("provider", oauthProvider),
		oauth2.SetAuthURLParam("redirect_to", redirectTo),
	)
}

// do performs a single provider request. accessToken overrides the api key as
// the bearer credential when present. A non-2xx response is decoded into
// *Error with the provider's message kept intact.
func (c *HTTPClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[HTTPClient do] marshal body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("[HTTPClient do] new request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[HTTPClient do] %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("provider call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[HTTPClient do] read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		msg := er.message()
		if msg == "" {
			msg = fmt.Sprintf("provider request failed with status %d", resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("[HTTPClient do] decode response: %w", err)
		}
	}
	return nil
}
