package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envSpec is populated from the environment. All variables are prefixed with
// AUTHCLIENT_ (e.g. AUTHCLIENT_PROVIDER_URL).
type envSpec struct {
	AppName  string `envconfig:"APP_NAME" default:"Go Auth Client"`
	Env      string `envconfig:"ENV" default:"DEV"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ProviderURL       string `envconfig:"PROVIDER_URL" required:"true"`
	ProviderKey       string `envconfig:"PROVIDER_KEY" required:"true"`
	OAuthProviderName string `envconfig:"OAUTH_PROVIDER" default:"google"`

	CallbackAddr string `envconfig:"CALLBACK_ADDR" default:"127.0.0.1:43123"`
}

type EnvVars struct {
	spec envSpec
}

var _ Config = EnvVars{}

func newEnvVars() (EnvVars, error) {
	var spec envSpec
	if err := envconfig.Process("authclient", &spec); err != nil {
		return EnvVars{}, fmt.Errorf("config.newEnvVars: %w", err)
	}
	return EnvVars{spec: spec}, nil
}

func (e EnvVars) GetAppName() string {
	return e.spec.AppName
}

func (e EnvVars) GetEnv() string {
	return e.spec.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.spec.LogLevel
}

func (e EnvVars) GetProviderURL() string {
	return e.spec.ProviderURL
}

func (e EnvVars) GetProviderKey() string {
	return e.spec.ProviderKey
}

func (e EnvVars) GetOAuthProviderName() string {
	return e.spec.OAuthProviderName
}

func (e EnvVars) GetCallbackAddr() string {
	return e.spec.CallbackAddr
}

// GetOAuthRedirectURL is where the browser lands after the external OAuth
// hand-off. Must be allow-listed with the provider.
func (e EnvVars) GetOAuthRedirectURL() string {
	return fmt.Sprintf("http://%s/redirect", e.spec.CallbackAddr)
}

// GetResetRedirectURL is the redirect target embedded in password-reset emails.
func (e EnvVars) GetResetRedirectURL() string {
	return fmt.Sprintf("http://%s/reset", e.spec.CallbackAddr)
}
