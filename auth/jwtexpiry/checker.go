// Package jwtexpiry checks access-token expiry by decoding the JWT exp
// claim. The client never verifies signatures; verification is the
// backend's job, this only reads the expiry the backend already encoded.
package jwtexpiry

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Checker treats a token as expired once its exp claim is within leeway
// of the current time, so a refresh can happen before the token actually
// lapses mid-request.
type Checker struct {
	leeway time.Duration
	parser *jwt.Parser
}

type CheckerOption func(*Checker)

// WithLeeway sets how long before the exp claim a token is already
// treated as expired.
func WithLeeway(leeway time.Duration) CheckerOption {
	return func(c *Checker) {
		c.leeway = leeway
	}
}

func New(options ...CheckerOption) *Checker {
	c := &Checker{
		leeway: 30 * time.Second,
		parser: jwt.NewParser(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Expired reports whether the token's exp claim has passed (minus leeway).
// Tokens that are not JWTs or carry no exp claim are treated as
// non-expired: an opaque token's validity is the backend's call.
func (c *Checker) Expired(accessToken string, now time.Time) bool {
	token, _, err := c.parser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return false
	}

	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}

	return !now.Add(c.leeway).Before(expiry.Time)
}
