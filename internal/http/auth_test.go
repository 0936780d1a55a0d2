package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"giftible/internal/http/handlers"
)

func TestLoginSetsSessionAndLanding(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, "POST", "/api/auth/login", `{"contact_number":"9000000002","password":"secret1"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	sid := cookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing")
	}
	body := decode(t, resp)
	if body["redirect"] != "/dashboard/admin" {
		t.Fatalf("admin should land on the admin dashboard, got %v", body["redirect"])
	}
	if ta.store.Len() != 1 {
		t.Fatalf("expected one stored session, got %d", ta.store.Len())
	}

	me := decode(t, ta.do(t, "GET", "/api/auth/me", "", sid))
	if me["role"] != "admin" {
		t.Fatalf("me: unexpected user %v", me)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, "POST", "/api/auth/login", `{"contact_number":"9000000001","password":"wrongpass"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if cookie(resp, "sid") != "" {
		t.Fatal("no session cookie expected on failed login")
	}

	resp = ta.do(t, "POST", "/api/auth/login", `{"contact_number":"abc","password":"secret1"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed contact, got %d", resp.StatusCode)
	}
}

func TestLoginThrottled(t *testing.T) {
	ta := newTestApp(t)
	last := 0
	for range 6 {
		resp := ta.do(t, "POST", "/api/auth/login", `{"contact_number":"9000000001","password":"wrongpass"}`, "")
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after repeated attempts, got %d", last)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.login(t, "9000000001")

	resp := ta.do(t, "POST", "/api/auth/logout", "", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	if !cookieCleared(resp, "sid") {
		t.Fatal("sid cookie not cleared")
	}
	if ta.store.Len() != 0 {
		t.Fatal("session still stored after logout")
	}
	if len(ta.api.revoked) != 1 || ta.api.revoked[0] != "R1" {
		t.Fatalf("refresh token should be revoked upstream, got %v", ta.api.revoked)
	}
	if resp := ta.do(t, "GET", "/api/auth/me", "", sid); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old sid should no longer authenticate, got %d", resp.StatusCode)
	}
}

func TestLoginPageRendersAndRedirectsSignedIn(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, "GET", "/login", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login page: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("login page content type %q", ct)
	}

	sid := ta.login(t, "9000000003")
	resp = ta.do(t, "GET", "/login", "", sid)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard/ngo" {
		t.Fatalf("signed-in ngo should be sent to its dashboard, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

// postLoginForm submits the server-rendered login form. tok goes into the csrf
// field; the cookie is always sent.
func postLoginForm(t *testing.T, ta *testApp, cookieTok, tok, pass string) *http.Response {
	t.Helper()
	form := url.Values{}
	form.Set("contact_number", "9000000001")
	form.Set("password", pass)
	if tok != "" {
		form.Set("csrf", tok)
	}
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: cookieTok})
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("post login form: %v", err)
	}
	return resp
}

func csrfFromLoginPage(t *testing.T, ta *testApp) string {
	t.Helper()
	resp := ta.do(t, "GET", "/login", "", "")
	tok := cookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf cookie missing on login page")
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(page), `name="csrf" value="`+tok+`"`) {
		t.Fatal("login form does not carry the csrf token")
	}
	return tok
}

func TestLoginFormWithCSRFToken(t *testing.T) {
	ta := newTestApp(t, handlers.CSRF(false))
	tok := csrfFromLoginPage(t, ta)

	resp := postLoginForm(t, ta, tok, tok, password)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after form login, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard/user" {
		t.Fatalf("expected user landing page, got %q", loc)
	}
	if cookie(resp, "sid") == "" {
		t.Fatal("sid cookie missing after form login")
	}
}

func TestLoginFormBadPasswordRerendersForm(t *testing.T) {
	ta := newTestApp(t, handlers.CSRF(false))
	tok := csrfFromLoginPage(t, ta)

	resp := postLoginForm(t, ta, tok, tok, "wrongpass")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(page), "Invalid contact number or password") {
		t.Fatal("login page should show the error")
	}
	if !strings.Contains(string(page), `name="csrf" value="`+tok+`"`) {
		t.Fatal("re-rendered form lost the csrf token")
	}
}

func TestLoginFormRequiresCSRFToken(t *testing.T) {
	ta := newTestApp(t, handlers.CSRF(false))
	tok := csrfFromLoginPage(t, ta)

	if resp := postLoginForm(t, ta, tok, "", password); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing token: expected 403, got %d", resp.StatusCode)
	}
	if resp := postLoginForm(t, ta, tok, "forged", password); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("mismatched token: expected 403, got %d", resp.StatusCode)
	}
	if ta.store.Len() != 0 {
		t.Fatal("no session expected when the csrf check fails")
	}
}

func TestJSONLoginWithCSRFHeader(t *testing.T) {
	ta := newTestApp(t, handlers.CSRF(false))
	tok := csrfFromLoginPage(t, ta)

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"contact_number":"9000000001","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Csrf-Token", tok)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with the header token, got %d", resp.StatusCode)
	}
	if body := decode(t, resp); body["redirect"] != "/dashboard/user" {
		t.Fatalf("unexpected redirect %v", body["redirect"])
	}
}
