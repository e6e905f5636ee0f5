package authflow

import "errors"

var (
	// ErrValidation is a local pre-network failure (empty fields, mismatched
	// or too-short passwords). It never reaches the provider.
	ErrValidation = errors.New("validation failed")

	// ErrSamePassword is the classified provider rejection of a new password
	// equal to the old one. Warning severity, no navigation: the user retries.
	ErrSamePassword = errors.New("new password must be different")

	// ErrInvalidLink is a terminal recovery failure: the reset link is
	// invalid or expired and no session exists to fall back on.
	ErrInvalidLink = errors.New("invalid or expired reset link")

	// ErrSessionError is a terminal recovery failure establishing a session
	// from a direct token pair.
	ErrSessionError = errors.New("unable to verify reset request")

	// ErrMalformedRedirect marks a redirect arrival missing its expected
	// parameters.
	ErrMalformedRedirect = errors.New("redirect missing expected parameters")

	// ErrCodeAlreadyUsed guards the single-exchange invariant: a one-time
	// code must never reach the provider twice.
	ErrCodeAlreadyUsed = errors.New("code already exchanged")

	// ErrProviderDenied carries an error_description returned by the
	// provider on a redirect (e.g. the user cancelled the consent screen).
	ErrProviderDenied = errors.New("authorization denied")
)

// Terminal reports whether a recovery error forces navigation away from the
// reset screen. Everything else is retryable with a fresh submission.
func Terminal(err error) bool {
	return errors.Is(err, ErrInvalidLink) || errors.Is(err, ErrSessionError)
}

// FlowError pairs an error kind with the exact message shown to the user.
// errors.Is matches the kind; Error() is safe to display as-is.
type FlowError struct {
	Kind    error
	Message string
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Kind
}

func flowError(kind error, message string) error {
	return &FlowError{Kind: kind, Message: message}
}
