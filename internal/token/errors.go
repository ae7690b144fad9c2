package token

import "errors"

var (
	// ErrMalformedToken indicates the token is not a decodable JWT or carries no exp claim
	ErrMalformedToken = errors.New("malformed token")

	// ErrReauthRequired indicates no valid identity token can be produced
	// without the user logging in again
	ErrReauthRequired = errors.New("re-authentication required")

	// ErrStoreUnavailable indicates the token store could not be read or written
	ErrStoreUnavailable = errors.New("token store unavailable")
)
