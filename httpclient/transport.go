// Package httpclient wraps request dispatch for the MentorHub backend:
// bearer-token attachment on every outgoing call and transparent 401
// recovery through a single shared token refresh.
package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentorhub/go-mentorhub/session"
	"github.com/rs/zerolog"
)

// SessionAuthority is the slice of the auth service the transport needs.
type SessionAuthority interface {
	AccessToken() string
	RefreshToken() string
	Refresh(ctx context.Context) (*session.Session, error)
	SignOut()
}

// Transport is an http.RoundTripper decorator. Requests to auth endpoints
// pass through untouched: a stale bearer on the refresh call itself would
// loop forever. Everything else gets the current access token and, on a
// 401, exactly one retry with a freshly refreshed token.
type Transport struct {
	base       http.RoundTripper
	svc        SessionAuthority
	authPrefix string
	log        zerolog.Logger
	coord      *refreshCoordinator
}

var _ http.RoundTripper = (*Transport)(nil)

type TransportOption func(*Transport)

// WithBase sets the underlying RoundTripper.
func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = base
	}
}

// WithAuthPathPrefix overrides the URL path fragment that marks a request
// as targeting the auth endpoints.
func WithAuthPathPrefix(prefix string) TransportOption {
	return func(t *Transport) {
		t.authPrefix = prefix
	}
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.log = log
	}
}

func NewTransport(svc SessionAuthority, options ...TransportOption) *Transport {
	t := &Transport{
		base:       http.DefaultTransport,
		svc:        svc,
		authPrefix: "/auth/",
		log:        zerolog.Nop(),
		coord:      &refreshCoordinator{},
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NewClient builds an http.Client dispatching through the transport.
func NewClient(svc SessionAuthority, timeout time.Duration, options ...TransportOption) *http.Client {
	return &http.Client{
		Transport: NewTransport(svc, options...),
		Timeout:   timeout,
	}
}

// RoundTrip implements the per-request behavior: attach the bearer,
// dispatch, and on a 401 run the shared recovery protocol.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.isAuthRequest(req) {
		return t.base.RoundTrip(req)
	}

	requestID := uuid.New().String()
	token := t.svc.AccessToken()

	authed := cloneWithToken(req, token, requestID)
	resp, err := t.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}

	t.log.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("request dispatched")

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// A request whose body cannot be replayed cannot be retried; the 401
	// goes back to the caller as-is.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	outcome := t.coord.resolve(req.Context(), t.refresh)
	switch {
	case outcome.ctxErr != nil:
		drainAndClose(resp)
		return nil, outcome.ctxErr
	case outcome.terminal:
		// No refresh token existed: signed out, the original 401 is the
		// caller's error to handle.
		return resp, nil
	case outcome.err != nil:
		drainAndClose(resp)
		return nil, outcome.err
	}

	drainAndClose(resp)

	retry := cloneWithToken(req, outcome.token, requestID)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	t.log.Debug().
		Str("request_id", requestID).
		Str("path", req.URL.Path).
		Msg("retrying with refreshed token")
	return t.base.RoundTrip(retry)
}

// refresh is the single shared refresh attempt, run by whichever request
// hit the 401 first.
func (t *Transport) refresh(ctx context.Context) refreshOutcome {
	if t.svc.RefreshToken() == "" {
		t.log.Warn().Msg("401 with no refresh token, signing out")
		t.svc.SignOut()
		return refreshOutcome{terminal: true}
	}

	sess, err := t.svc.Refresh(ctx)
	if err != nil {
		// Fail closed. The service clears the session itself on a backend
		// rejection; SignOut here also covers transport failures and is
		// idempotent either way.
		t.log.Warn().Err(err).Msg("token refresh failed, signing out")
		t.svc.SignOut()
		return refreshOutcome{err: err}
	}
	return refreshOutcome{token: sess.AccessToken}
}

func (t *Transport) isAuthRequest(req *http.Request) bool {
	return strings.Contains(req.URL.Path, t.authPrefix)
}

func cloneWithToken(req *http.Request, token, requestID string) *http.Request {
	cloned := req.Clone(req.Context())
	if token != "" {
		cloned.Header.Set("Authorization", "Bearer "+token)
	}
	cloned.Header.Set("X-Request-ID", requestID)
	return cloned
}

// drainAndClose discards a response body so the underlying connection can
// be reused.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
}
