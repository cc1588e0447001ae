package auth

import "errors"

var (
	// ErrMissingToken is returned when the Authorization header is absent.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when the identity provider rejects a token.
	ErrInvalidToken = errors.New("invalid bearer token")
)
