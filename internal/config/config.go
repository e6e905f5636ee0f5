package config

type Config interface {
	EnvConfig
	ProviderConfig
	CallbackConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// ProviderConfig describes how to reach the hosted identity provider.
type ProviderConfig interface {
	GetProviderURL() string
	GetProviderKey() string
	GetOAuthProviderName() string
}

// CallbackConfig describes the loopback listener that receives browser
// redirects (the desktop analog of the mobile deep-link scheme).
type CallbackConfig interface {
	GetCallbackAddr() string
	GetOAuthRedirectURL() string
	GetResetRedirectURL() string
}

func New() (Config, error) {
	return newEnvVars()
}
