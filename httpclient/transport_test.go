package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mentorhub/go-mentorhub/auth"
	"github.com/mentorhub/go-mentorhub/httpclient"
	"github.com/mentorhub/go-mentorhub/session"
	"github.com/mentorhub/go-mentorhub/session/storefakes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeAuthority stands in for the auth service. Refresh swaps the token
// it hands out; RefreshCalls counts invocations for the single-flight
// assertions.
type fakeAuthority struct {
	lock         sync.Mutex
	accessToken  string
	refreshToken string
	nextToken    string
	refreshErr   error
	refreshDelay time.Duration

	RefreshCalls int32
	SignOuts     int32
}

func (f *fakeAuthority) AccessToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.accessToken
}

func (f *fakeAuthority) RefreshToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshToken
}

func (f *fakeAuthority) Refresh(context.Context) (*session.Session, error) {
	atomic.AddInt32(&f.RefreshCalls, 1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.refreshErr != nil {
		f.accessToken = ""
		f.refreshToken = ""
		return nil, f.refreshErr
	}
	f.accessToken = f.nextToken
	return &session.Session{AccessToken: f.nextToken, RefreshToken: f.refreshToken}, nil
}

func (f *fakeAuthority) SignOut() {
	atomic.AddInt32(&f.SignOuts, 1)
}

func TestTransport_AttachesBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	authority := &fakeAuthority{accessToken: "access-1"}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer access-1", gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestTransport_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer backend.Close()

	client := &http.Client{Transport: httpclient.NewTransport(&fakeAuthority{})}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, gotAuth)
}

func TestTransport_AuthEndpointsExempt(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	authority := &fakeAuthority{accessToken: "stale", refreshToken: "refresh-1", nextToken: "fresh"}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	// A 401 from an auth endpoint must not trigger recovery, and no bearer
	// is ever attached there.
	resp, err := client.Get(backend.URL + "/api/auth/login")
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, gotAuth)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, atomic.LoadInt32(&authority.RefreshCalls))
}

func TestTransport_RefreshAndRetryOn401(t *testing.T) {
	var requests []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		requests = append(requests, token)
		if token != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	authority := &fakeAuthority{accessToken: "stale", refreshToken: "refresh-1", nextToken: "fresh"}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"stale", "fresh"}, requests)
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.RefreshCalls))
}

func TestTransport_ConcurrentBurstSingleRefresh(t *testing.T) {
	const parallel = 5

	var gate sync.WaitGroup
	gate.Add(parallel)
	release := make(chan struct{})

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != "fresh" {
			// Hold every first attempt at the 401 until all have arrived,
			// so all five 401s land while no refresh is in flight yet.
			gate.Done()
			<-release
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	// The refresh holds long enough for every burst member to reach the
	// coordinator, so exactly-one-refresh is what is actually exercised.
	authority := &fakeAuthority{
		accessToken: "stale", refreshToken: "refresh-1", nextToken: "fresh",
		refreshDelay: 300 * time.Millisecond,
	}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	go func() {
		gate.Wait()
		close(release)
	}()

	var wg sync.WaitGroup
	statuses := make([]int, parallel)
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.Get(backend.URL + "/api/bookings")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallel; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, http.StatusOK, statuses[i])
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.RefreshCalls))
}

func TestTransport_NoRefreshTokenSignsOutAndReturns401(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	authority := &fakeAuthority{accessToken: "stale"}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	resp.Body.Close()

	// The original 401 reaches the caller; the session is gone.
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.SignOuts))
	require.Zero(t, atomic.LoadInt32(&authority.RefreshCalls))
}

func TestTransport_RefreshFailurePropagates(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	refreshErr := errors.New("refresh token revoked")
	authority := &fakeAuthority{accessToken: "stale", refreshToken: "refresh-1", refreshErr: refreshErr}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	_, err := client.Get(backend.URL + "/api/mentors")
	require.Error(t, err)
	require.Contains(t, err.Error(), "refresh token revoked")
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.RefreshCalls))
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.SignOuts))
}

func TestTransport_RetriedOnlyOnce(t *testing.T) {
	var attempts int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		// Always 401: even the refreshed token is rejected.
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	authority := &fakeAuthority{accessToken: "stale", refreshToken: "refresh-1", nextToken: "still-bad"}
	client := &http.Client{Transport: httpclient.NewTransport(authority)}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	require.Equal(t, int32(1), atomic.LoadInt32(&authority.RefreshCalls))
}

// End-to-end against the real auth service: a dashboard-style burst where
// the refresh endpoint itself lives behind the exempted auth prefix.
func TestTransport_WithRealService(t *testing.T) {
	mux := http.NewServeMux()
	var refreshCalls int32
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "fresh",
			"refreshToken": "refresh-2",
		})
	})
	mux.HandleFunc("GET /api/mentors", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.Write(&session.Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		User:         session.UserIdentity{ID: "u1", Role: session.RoleMentor},
	}))

	service, err := auth.NewService(store, backend.URL+"/api/auth")
	require.NoError(t, err)

	client := &http.Client{Transport: httpclient.NewTransport(service)}

	resp, err := client.Get(backend.URL + "/api/mentors")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))

	stored, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, "fresh", stored.AccessToken)
	require.Equal(t, "refresh-2", stored.RefreshToken)
}
