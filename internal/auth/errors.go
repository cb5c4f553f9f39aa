package auth

import "errors"

// Store-level sentinels. Both identity store implementations translate
// their engine-specific failures into these before returning.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Service-level taxonomy. This is everything a transport layer learns about
// why an operation failed; hashing and codec internals never cross here.
var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the access token decoded fine but the subject
	// is missing or deactivated.
	ErrUnauthorized = errors.New("unauthorized")
)
