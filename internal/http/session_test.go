package handlers_test

import (
	"net/http"
	"testing"
)

func TestExpiredAccessTokenRefreshedTransparently(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.login(t, "9000000001")
	ta.api.expireAccessTokens()

	resp := ta.do(t, "GET", "/api/cart", "", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the cart after a silent refresh, got %d", resp.StatusCode)
	}
	if n := ta.api.refreshes.Load(); n != 1 {
		t.Fatalf("expected one refresh call, got %d", n)
	}

	// The rotated token is stored; no further refresh is needed.
	if resp := ta.do(t, "GET", "/api/cart", "", sid); resp.StatusCode != http.StatusOK {
		t.Fatalf("second call: %d", resp.StatusCode)
	}
	if n := ta.api.refreshes.Load(); n != 1 {
		t.Fatalf("expected no second refresh, got %d", n)
	}
}

func TestFailedRefreshEndsSession(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.login(t, "9000000001")
	ta.api.expireAccessTokens()
	ta.api.refreshOK = false

	resp := ta.do(t, "GET", "/api/cart", "", sid)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !cookieCleared(resp, "sid") {
		t.Fatal("sid cookie should be cleared")
	}
	body := decode(t, resp)
	if body["redirect"] != "/login" {
		t.Fatalf("expected login redirect, got %v", body["redirect"])
	}
	if ta.store.Len() != 0 {
		t.Fatal("session should be cleared")
	}

	// The page gate now treats the browser as anonymous.
	resp = ta.do(t, "GET", "/cart", "", sid)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestAPIErrorsPassThrough(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.login(t, "9000000001")

	resp := ta.do(t, "POST", "/api/cart", `{"product_id":1,"quantity":80}`, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 from the API, got %d", resp.StatusCode)
	}
	if body := decode(t, resp); body["error"] != "Not enough stock" {
		t.Fatalf("expected API detail, got %v", body["error"])
	}

	resp = ta.do(t, "GET", "/api/products/99", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp = ta.do(t, "POST", "/api/cart", `{"product_id":"../x","quantity":1}`, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", resp.StatusCode)
	}
}

func TestNGOOrdersForwardsFilters(t *testing.T) {
	ta := newTestApp(t)
	sid := ta.login(t, "9000000003")

	resp := ta.do(t, "GET", "/api/ngo/orders?page=2&status=Shipped&start_date=bad", "", sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ngo orders: %d", resp.StatusCode)
	}
	body := decode(t, resp)
	if body["query"] != "page=2&page_size=10&status=Shipped" {
		t.Fatalf("unexpected forwarded query %v", body["query"])
	}
}
