package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects a sign-in
	// or sign-up attempt. No session mutation occurs.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession is returned when an operation needs a stored session and
	// none exists.
	ErrNoSession = errors.New("no stored session")

	// ErrNoRefreshToken is returned when a refresh is attempted but the
	// stored session carries no refresh token. The session is cleared.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshRejected is returned when the backend refuses the refresh
	// token. The session is cleared.
	ErrRefreshRejected = errors.New("refresh token rejected")
)
