package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
	"giftible/internal/session"
)

// backend is a fake REST API. Protected routes accept only the current
// access token.
type backend struct {
	mu      sync.Mutex
	current string
	bodies  []string
	auths   []string

	refreshOK    bool
	refreshDelay time.Duration
	alwaysDeny   bool
	// barrier holds the first n protected calls until all n arrived.
	barrier  int32
	arrived  atomic.Int32
	released chan struct{}

	refreshes atomic.Int32
	hits      atomic.Int32
}

func newBackend(t *testing.T, current string) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{current: current, refreshOK: true, released: make(chan struct{})}
	r := chi.NewRouter()
	r.Post("/refresh-token", b.refresh)
	r.Get("/protected", b.protected)
	r.Post("/protected", b.protected)
	r.Get("/public", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Not authenticated"}`)
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"Product is out of stock"}`)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) refresh(w http.ResponseWriter, r *http.Request) {
	b.refreshes.Add(1)
	if b.refreshDelay > 0 {
		time.Sleep(b.refreshDelay)
	}
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if !b.refreshOK || in.RefreshToken != "R1" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Invalid refresh token"}`)
		return
	}
	b.mu.Lock()
	b.current = "T2"
	b.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token":  "T2",
		"refresh_token": "R2",
		"token_type":    "bearer",
	})
}

func (b *backend) protected(w http.ResponseWriter, r *http.Request) {
	n := b.hits.Add(1)
	body, _ := io.ReadAll(r.Body)
	auth := r.Header.Get("Authorization")
	b.mu.Lock()
	b.bodies = append(b.bodies, string(body))
	b.auths = append(b.auths, auth)
	current := b.current
	b.mu.Unlock()

	if b.barrier > 0 && n <= b.barrier {
		if b.arrived.Add(1) == b.barrier {
			close(b.released)
		}
		select {
		case <-b.released:
		case <-time.After(2 * time.Second):
		}
	}

	if b.alwaysDeny || auth != "Bearer "+current {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"token": auth})
}

func (b *backend) authHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auths...)
}

type countingStore struct {
	*session.MemoryStore
	deletes atomic.Int32
}

func (s *countingStore) Delete(ctx context.Context, sid string) error {
	s.deletes.Add(1)
	return s.MemoryStore.Delete(ctx, sid)
}

type fixture struct {
	api     *apiclient.Client
	store   *countingStore
	manager *session.Manager
	sid     string
	expired atomic.Int32
}

func setup(t *testing.T, srv *httptest.Server) *fixture {
	t.Helper()
	f := &fixture{
		api:   apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, HTTPClient: srv.Client()}),
		store: &countingStore{MemoryStore: session.NewMemoryStore(time.Hour)},
	}
	f.manager = session.NewManager(f.store, f.api, session.Options{RefreshTimeout: 5 * time.Second})
	f.manager.OnExpired(func(context.Context, *domain.Session, error) { f.expired.Add(1) })

	s, err := f.manager.Create(context.Background(), domain.TokenPair{AccessToken: "T1", RefreshToken: "R1"},
		domain.User{ID: "7", Role: domain.RoleUser})
	require.NoError(t, err)
	f.sid = s.ID
	return f
}

type tokenOut struct {
	Token string `json:"token"`
}

func TestValidTokenNoRefresh(t *testing.T) {
	b, srv := newBackend(t, "T1")
	f := setup(t, srv)

	var out tokenOut
	err := f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer T1", out.Token)
	assert.EqualValues(t, 0, b.refreshes.Load())
	assert.EqualValues(t, 1, b.hits.Load())
}

func TestExpiredTokenRefreshesAndRetriesOnce(t *testing.T) {
	b, srv := newBackend(t, "T2")
	f := setup(t, srv)

	var out tokenOut
	err := f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer T2", out.Token)
	assert.EqualValues(t, 1, b.refreshes.Load())
	assert.Equal(t, []string{"Bearer T1", "Bearer T2"}, b.authHeaders())

	s, err := f.manager.Get(context.Background(), f.sid)
	require.NoError(t, err)
	assert.Equal(t, "T2", s.AccessToken)
	assert.Equal(t, "R2", s.RefreshToken)
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 8
	b, srv := newBackend(t, "T2")
	b.barrier = n
	b.refreshDelay = 50 * time.Millisecond
	f := setup(t, srv)

	var wg sync.WaitGroup
	errs := make([]error, n)
	outs := make([]tokenOut, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, &outs[i])
		}(i)
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i], "request %d", i)
		assert.Equal(t, "Bearer T2", outs[i].Token)
	}
	assert.EqualValues(t, 1, b.refreshes.Load())
	assert.EqualValues(t, 2*n, b.hits.Load())
	assert.EqualValues(t, 0, f.store.deletes.Load())
}

func TestTwoRequestsReplayWithRotatedToken(t *testing.T) {
	b, srv := newBackend(t, "T2")
	b.barrier = 2
	f := setup(t, srv)

	var wg sync.WaitGroup
	var a, c tokenOut
	var errA, errC error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errA = f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, &a)
	}()
	go func() {
		defer wg.Done()
		errC = f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, &c)
	}()
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errC)
	assert.Equal(t, "Bearer T2", a.Token)
	assert.Equal(t, "Bearer T2", c.Token)
	assert.EqualValues(t, 1, b.refreshes.Load())
}

func TestRefreshFailureRejectsAllAndClearsOnce(t *testing.T) {
	const n = 5
	b, srv := newBackend(t, "T2")
	b.refreshOK = false
	b.barrier = n
	f := setup(t, srv)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, nil)
		}(i)
	}
	wg.Wait()

	for i := range n {
		assert.ErrorIs(t, errs[i], apiclient.ErrSessionExpired, "request %d", i)
	}
	assert.EqualValues(t, 1, b.refreshes.Load())
	assert.EqualValues(t, 1, f.store.deletes.Load())
	assert.EqualValues(t, 1, f.expired.Load())
	assert.EqualValues(t, n, b.hits.Load())

	_, err := f.manager.Get(context.Background(), f.sid)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRefreshErrorStopsFurtherRequests(t *testing.T) {
	b, srv := newBackend(t, "T2")
	b.refreshOK = false
	f := setup(t, srv)

	err := f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, nil)
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	assert.EqualValues(t, 1, b.hits.Load())
	assert.EqualValues(t, 1, b.refreshes.Load())
	assert.Equal(t, 0, f.store.Len())
}

func TestReplayRejectedAgainIsNotRetried(t *testing.T) {
	b, srv := newBackend(t, "T1")
	b.alwaysDeny = true
	f := setup(t, srv)

	err := f.api.Get(context.Background(), f.manager.Handle(f.sid), "/protected", nil, nil)
	var ae *apiclient.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Could not validate credentials", ae.Detail)
	assert.EqualValues(t, 1, b.refreshes.Load())
	assert.EqualValues(t, 2, b.hits.Load())
}

func TestReplaySendsSameBody(t *testing.T) {
	b, srv := newBackend(t, "T2")
	f := setup(t, srv)

	body := map[string]any{"product_id": 12, "quantity": 3}
	err := f.api.Post(context.Background(), f.manager.Handle(f.sid), "/protected", body, nil)
	require.NoError(t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.bodies, 2)
	assert.JSONEq(t, `{"product_id":12,"quantity":3}`, b.bodies[0])
	assert.Equal(t, b.bodies[0], b.bodies[1])
}

func TestAnonymousUnauthorizedDoesNotRefresh(t *testing.T) {
	b, srv := newBackend(t, "T1")
	f := setup(t, srv)

	err := f.api.Get(context.Background(), nil, "/public", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
	assert.EqualValues(t, 0, b.refreshes.Load())
}

func TestErrorDetailPassesThrough(t *testing.T) {
	b, srv := newBackend(t, "T1")
	f := setup(t, srv)

	err := f.api.Get(context.Background(), f.manager.Handle(f.sid), "/broken", nil, nil)
	var ae *apiclient.APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Product is out of stock", ae.Detail)
	assert.EqualValues(t, 0, b.refreshes.Load())
}

func TestLoginPostsForm(t *testing.T) {
	var got struct{ user, pass, ctype string }
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		got.ctype = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		got.user, got.pass = r.PostFormValue("username"), r.PostFormValue("password")
		_, _ = io.WriteString(w, `{"access_token":"A","refresh_token":"R","token_type":"bearer","role":"ngo"}`)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	api := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/"})
	pair, err := api.Login(context.Background(), "9876543210", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", got.ctype)
	assert.Equal(t, "9876543210", got.user)
	assert.Equal(t, "secret1", got.pass)
	assert.Equal(t, "A", pair.AccessToken)
	assert.Equal(t, "ngo", pair.Role)
}

func TestRefreshTokenPath(t *testing.T) {
	var hits []string
	r := chi.NewRouter()
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		_, _ = io.WriteString(w, `{"access_token":"T9"}`)
	}
	r.Post("/refresh-token", handler)
	r.Post("/auth/renew", handler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	pair, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}).RefreshToken(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "T9", pair.AccessToken)
	assert.Empty(t, pair.RefreshToken)

	_, err = apiclient.New(apiclient.Config{BaseURL: srv.URL, RefreshPath: "/auth/renew"}).RefreshToken(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/refresh-token", "/auth/renew"}, hits)
}
