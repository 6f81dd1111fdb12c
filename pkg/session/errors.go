package session

import "errors"

var (
	// ErrUnauthenticated is returned when no candidate cookie carries a
	// valid, unexpired session token.
	ErrUnauthenticated = errors.New("session: no valid session")

	// ErrMissingVerifier is returned when an authenticator is constructed
	// without a token verifier.
	ErrMissingVerifier = errors.New("session: missing token verifier")
)
