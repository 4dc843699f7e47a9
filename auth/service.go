// Package auth owns the session lifecycle: it is the only writer to the
// session store, and every other component (guards, request dispatch,
// views) consults it rather than the store directly.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mentorhub/go-mentorhub/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Doer dispatches an HTTP request. The auth service must talk to the
// backend with an unintercepted client: auth endpoints never receive a
// bearer token and never participate in 401 recovery.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

const maxErrorBodyBytes = 4 << 10

// NewUser carries the sign-up form fields.
type NewUser struct {
	FullName string
	Email    string
	Password string
	Role     session.Role
}

// Service is the sole authority for the session lifecycle.
type Service struct {
	store    session.Store
	client   Doer
	baseURL  string
	expiry   ExpiryChecker
	nowFunc  func() time.Time
	log      zerolog.Logger
	users    *broadcaster
	writeMut sync.Mutex // serializes store mutation + publish so observers see updates in order
}

type ServiceOption func(*Service)

// WithHTTPClient sets the HTTP client used for auth endpoints.
func WithHTTPClient(client Doer) ServiceOption {
	return func(s *Service) {
		s.client = client
	}
}

// WithExpiryChecker sets the access-token expiry policy.
func WithExpiryChecker(checker ExpiryChecker) ServiceOption {
	return func(s *Service) {
		s.expiry = checker
	}
}

// WithNowFunc sets the now time function (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = nowFunc
	}
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the session service. baseURL points at the auth
// endpoint root, e.g. "http://localhost:8080/api/auth". The current-user
// channel is seeded from whatever session the store already holds.
func NewService(store session.Store, baseURL string, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewService] baseURL is required")
	}

	svc := &Service{
		store:   store,
		client:  http.DefaultClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		expiry:  NeverExpired{},
		nowFunc: time.Now,
		log:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(svc)
	}

	var initial *session.UserIdentity
	if sess, err := store.Read(); err == nil && sess != nil {
		user := sess.User
		initial = &user
	}
	svc.users = newBroadcaster(initial)

	return svc, nil
}

// SignIn exchanges credentials for a session. On success the session is
// persisted and the new identity is published to all observers. Rejected
// credentials surface as ErrInvalidCredentials with no session mutation.
func (s *Service) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	payload, err := s.postAuth(ctx, "/login", signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SignIn] login request")
	}

	sess, err := payload.mapSession()
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SignIn] map response")
	}

	if err := s.storeAndPublish(sess); err != nil {
		return nil, errors.Wrap(err, "[Service.SignIn] persist session")
	}

	s.log.Info().Str("email", sess.User.Email).Str("role", string(sess.User.Role)).Msg("signed in")
	return sess, nil
}

// SignUp registers a new account. Registration auto-logs-in: the backend
// returns a full token payload which is persisted and published exactly
// as a sign-in would be.
func (s *Service) SignUp(ctx context.Context, newUser NewUser) (*session.Session, error) {
	role := newUser.Role
	if role == "" {
		role = session.RoleLearner
	}

	payload, err := s.postAuth(ctx, "/register", signUpRequest{
		FullName: newUser.FullName,
		Email:    newUser.Email,
		Password: newUser.Password,
		Role:     string(role),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SignUp] register request")
	}

	sess, err := payload.mapSession()
	if err != nil {
		return nil, errors.Wrap(err, "[Service.SignUp] map response")
	}

	if err := s.storeAndPublish(sess); err != nil {
		return nil, errors.Wrap(err, "[Service.SignUp] persist session")
	}

	s.log.Info().Str("email", sess.User.Email).Str("role", string(sess.User.Role)).Msg("registered")
	return sess, nil
}

// Refresh exchanges the stored refresh token for new tokens, carrying the
// user identity over unchanged unless the backend sends a fresh one. Any
// unrecoverable failure fails closed: the session is cleared and nil is
// published before the error is returned.
func (s *Service) Refresh(ctx context.Context) (*session.Session, error) {
	current, err := s.store.Read()
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] store.Read")
	}
	if current == nil {
		s.SignOut()
		return nil, ErrNoSession
	}
	if !current.HasRefreshToken() {
		s.SignOut()
		return nil, ErrNoRefreshToken
	}

	payload, err := s.postAuth(ctx, "/refresh", refreshRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.SignOut()
			return nil, errors.Wrap(ErrRefreshRejected, err.Error())
		}
		return nil, errors.Wrap(err, "[Service.Refresh] refresh request")
	}

	refreshed, err := payload.mapSession()
	if err != nil {
		s.SignOut()
		return nil, errors.Wrap(err, "[Service.Refresh] map response")
	}

	// Identity carries over from the current session when the refresh
	// response omits it.
	if refreshed.User.ID == "" && refreshed.User.Email == "" {
		refreshed.User = current.User
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}

	if err := s.storeAndPublish(refreshed); err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] persist session")
	}

	s.log.Debug().Str("email", refreshed.User.Email).Msg("tokens refreshed")
	return refreshed, nil
}

// SignOut clears the stored session and publishes a nil identity.
// Signing out twice is the same as signing out once.
func (s *Service) SignOut() {
	s.writeMut.Lock()
	defer s.writeMut.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("clearing session store failed")
	}
	s.users.Publish(nil)
}

// CurrentUser returns the last known identity, or nil when signed out.
func (s *Service) CurrentUser() *session.UserIdentity {
	return s.users.Current()
}

// Watch subscribes to identity changes. The current identity is delivered
// immediately; the cancel function releases the subscription.
func (s *Service) Watch() (<-chan *session.UserIdentity, func()) {
	return s.users.Subscribe()
}

// IsAuthenticated reports whether the store holds a session. Presence of
// a stored session is the sole logged-in signal.
func (s *Service) IsAuthenticated() bool {
	sess, err := s.store.Read()
	return err == nil && sess != nil
}

// IsAccessTokenExpired applies the configured expiry policy to the stored
// access token. With no session there is nothing to expire.
func (s *Service) IsAccessTokenExpired() bool {
	sess, err := s.store.Read()
	if err != nil || sess == nil {
		return false
	}
	return s.expiry.Expired(sess.AccessToken, s.nowFunc())
}

// AccessToken returns the stored bearer token, or "" when signed out.
func (s *Service) AccessToken() string {
	sess, err := s.store.Read()
	if err != nil || sess == nil {
		return ""
	}
	return sess.AccessToken
}

// RefreshToken returns the stored refresh token, or "" when signed out or
// when the session has no refresh capability.
func (s *Service) RefreshToken() string {
	sess, err := s.store.Read()
	if err != nil || sess == nil {
		return ""
	}
	return sess.RefreshToken
}

func (s *Service) storeAndPublish(sess *session.Session) error {
	s.writeMut.Lock()
	defer s.writeMut.Unlock()
	if err := s.store.Write(sess); err != nil {
		return errors.Wrap(err, "store.Write")
	}
	user := sess.User
	s.users.Publish(&user)
	return nil
}

// postAuth sends a JSON POST to an auth endpoint and decodes the token
// payload. 4xx rejections map to ErrInvalidCredentials carrying the
// backend's message.
func (s *Service) postAuth(ctx context.Context, path string, body any) (*authPayload, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "json.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "client.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, errors.Wrap(ErrInvalidCredentials, backendMessage(raw, resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected status %s", resp.Status)
	}

	var payload authPayload
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &payload, nil
}
