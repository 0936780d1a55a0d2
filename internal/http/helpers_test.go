package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"giftible/internal/apiclient"
	"giftible/internal/config"
	"giftible/internal/http/handlers"
	"giftible/internal/session"
)

const password = "secret1"

// fakeAPI stands in for the Giftible REST API.
type fakeAPI struct {
	mu        sync.Mutex
	roles     map[string]string // contact -> role
	access    map[string]bool
	refresh   map[string]bool
	seq       int
	refreshOK bool
	refreshes atomic.Int32
	revoked   []string
	last      upstreamCall
	noNGO     bool
}

// upstreamCall is the last request the echo route saw.
type upstreamCall struct {
	Method, Path, Query, Body, Type string
}

func (f *fakeAPI) lastCall() upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeAPI) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = upstreamCall{}
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		roles: map[string]string{
			"9000000001": "user",
			"9000000002": "admin",
			"9000000003": "ngo",
		},
		access:    map[string]bool{},
		refresh:   map[string]bool{},
		refreshOK: true,
	}
	r := chi.NewRouter()
	r.Post("/token", f.login)
	r.Post("/refresh-token", f.doRefresh)
	r.Post("/logout", f.logout)
	r.Get("/products/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, []map[string]any{{"id": 1, "name": "Clay diya"}})
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Product not found"})
	})
	r.Group(func(r chi.Router) {
		r.Use(f.requireToken)
		r.Get("/cart/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, map[string]any{"cart_items": []map[string]any{{"product_id": 1, "quantity": 2}}})
		})
		r.Post("/cart/add", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["quantity"] == float64(50) {
				writeJSON(w, 400, map[string]string{"detail": "Not enough stock"})
				return
			}
			writeJSON(w, 200, map[string]string{"message": "Product added to cart"})
		})
		r.Get("/admin/dashboard-stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, map[string]int{"pendingNGOs": 2, "totalUsers": 40})
		})
	})
	r.HandleFunc("/*", f.echo)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	role, ok := f.roles[r.PostFormValue("username")]
	if !ok || r.PostFormValue("password") != password {
		writeJSON(w, 401, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	f.mu.Lock()
	f.seq++
	access, refresh := "A"+strconv.Itoa(f.seq), "R"+strconv.Itoa(f.seq)
	f.access[access], f.refresh[refresh] = true, true
	f.mu.Unlock()
	body := map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"id":            100 + len(role),
		"first_name":    "Test",
		"last_name":     role,
		"role":          role,
	}
	if role == "ngo" && !f.noNGO {
		body["ngo_id"] = 7
	}
	writeJSON(w, 200, body)
}

func (f *fakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	f.revoked = append(f.revoked, in.RefreshToken)
	delete(f.refresh, in.RefreshToken)
	f.mu.Unlock()
	writeJSON(w, 200, map[string]string{"message": "Logged out"})
}

// echo answers any other route with what it received. A bearer token, when
// sent, must be live.
func (f *fakeAPI) echo(w http.ResponseWriter, r *http.Request) {
	if h := r.Header.Get("Authorization"); h != "" {
		f.mu.Lock()
		ok := f.access[strings.TrimPrefix(h, "Bearer ")]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, 401, map[string]string{"detail": "Could not validate credentials"})
			return
		}
	}
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.last = upstreamCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(b), Type: r.Header.Get("Content-Type")}
	f.mu.Unlock()
	// Sales totals and balances are bare numbers.
	if strings.HasPrefix(r.URL.Path, "/sales/") && r.URL.Path != "/sales/date-range" {
		writeJSON(w, 200, 1234.5)
		return
	}
	writeJSON(w, 200, map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
		"body":   string(b),
		"type":   r.Header.Get("Content-Type"),
		"authed": r.Header.Get("Authorization") != "",
	})
}

func (f *fakeAPI) doRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshes.Add(1)
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.refreshOK || !f.refresh[in.RefreshToken] {
		writeJSON(w, 401, map[string]string{"detail": "Invalid refresh token"})
		return
	}
	f.seq++
	access := "A" + strconv.Itoa(f.seq)
	f.access[access] = true
	writeJSON(w, 200, map[string]string{"access_token": access, "token_type": "bearer"})
}

func (f *fakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.access[tok]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, 401, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// expireAccessTokens makes every issued access token invalid.
func (f *fakeAPI) expireAccessTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = map[string]bool{}
}

type testApp struct {
	app   *fiber.App
	api   *fakeAPI
	store *session.MemoryStore
}

// newTestApp mounts the app against a fake API. mw runs ahead of the routes,
// the way main installs its global middleware.
func newTestApp(t *testing.T, mw ...fiber.Handler) *testApp {
	t.Helper()
	fa, srv := newFakeAPI(t)
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, HTTPClient: srv.Client(), Timeout: 5 * time.Second})
	store := session.NewMemoryStore(time.Hour)
	sm := session.NewManager(store, client, session.Options{RefreshTimeout: 5 * time.Second})

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	for _, h := range mw {
		app.Use(h)
	}
	handlers.Mount(app, handlers.NewDeps(client, sm, config.Config{}, nil))
	return &testApp{app: app, api: fa, store: store}
}

func (ta *testApp) do(t *testing.T, method, path, body, sid string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// login signs in contact and returns the sid cookie.
func (ta *testApp) login(t *testing.T, contact string) string {
	t.Helper()
	resp := ta.do(t, "POST", "/api/auth/login", `{"contact_number":"`+contact+`","password":"`+password+`"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", contact, resp.StatusCode)
	}
	sid := cookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing after login")
	}
	return sid
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func cookieCleared(resp *http.Response, name string) bool {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value == "" && !c.Expires.IsZero() && c.Expires.Before(time.Now())
		}
	}
	return false
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}
