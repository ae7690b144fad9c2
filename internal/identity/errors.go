package identity

import "errors"

var (
	// ErrNotAuthorized indicates wrong credentials or a revoked/expired refresh token
	ErrNotAuthorized = errors.New("identity provider: not authorized")

	// ErrUserNotConfirmed indicates the account exists but the sign-up code was never confirmed
	ErrUserNotConfirmed = errors.New("identity provider: user not confirmed")

	// ErrUserExists indicates a sign-up for an already registered username
	ErrUserExists = errors.New("identity provider: user already exists")

	// ErrCodeMismatch indicates a wrong or expired confirmation code
	ErrCodeMismatch = errors.New("identity provider: invalid confirmation code")

	// ErrChallengeRequired indicates the provider answered with an auth challenge
	// instead of tokens; challenge flows are not supported by this client
	ErrChallengeRequired = errors.New("identity provider: additional challenge required")

	// ErrProviderConnection indicates the request never produced a response
	ErrProviderConnection = errors.New("failed to connect to identity provider")

	// ErrInvalidResponse indicates a response that could not be interpreted
	ErrInvalidResponse = errors.New("invalid response from identity provider")

	// ErrProviderRejected covers every other named exception returned by the provider
	ErrProviderRejected = errors.New("identity provider rejected the request")
)

// APIError carries the exception reported by the identity provider.
// It is always returned wrapped together with one of the sentinels above.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return e.Type + ": " + e.Message
	case e.Message != "":
		return e.Message
	case e.Type != "":
		return e.Type
	}
	return "unknown error"
}

// sentinelFor maps a provider exception name onto the package taxonomy.
func sentinelFor(exceptionType string) error {
	switch exceptionType {
	case "NotAuthorizedException", "UserNotFoundException", "PasswordResetRequiredException":
		return ErrNotAuthorized
	case "UserNotConfirmedException":
		return ErrUserNotConfirmed
	case "UsernameExistsException", "AliasExistsException":
		return ErrUserExists
	case "CodeMismatchException", "ExpiredCodeException":
		return ErrCodeMismatch
	default:
		return ErrProviderRejected
	}
}
