package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"giftible/internal/domain"
	applog "giftible/internal/log"
	"giftible/internal/telemetry"
)

const (
	maxBody = 8 << 20

	DefaultRefreshPath = "/refresh-token"
)

// Credentials supplies the bearer token for one session and renews it.
// Refresh receives the token that was rejected so that a request failing
// after another one already rotated it can reuse the new token.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context, stale string) (string, error)
}

type Config struct {
	BaseURL string
	// RefreshPath is the token refresh endpoint. Defaults to DefaultRefreshPath.
	RefreshPath string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Metrics     *telemetry.Metrics
}

type Client struct {
	base        string
	refreshPath string
	http        *http.Client
	timeout     time.Duration
	metrics     *telemetry.Metrics
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	refreshPath := cfg.RefreshPath
	if refreshPath == "" {
		refreshPath = DefaultRefreshPath
	}
	return &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		refreshPath: refreshPath,
		http:        hc,
		timeout:     timeout,
		metrics:     cfg.Metrics,
	}
}

// BaseURL is the API root the client was built with.
func (c *Client) BaseURL() string { return c.base }

type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON encoded unless RawBody is set.
	Body        any
	RawBody     []byte
	ContentType string
	Header      http.Header
}

type response struct {
	status int
	body   []byte
}

// Do sends req with the bearer token from creds and decodes a 2xx body into
// out. A 401 triggers one refresh through creds and a single replay; the
// replay's outcome is final. creds may be nil for public endpoints.
func (c *Client) Do(ctx context.Context, creds Credentials, req Request, out any) error {
	body, ctype, err := req.encode()
	if err != nil {
		return err
	}

	var token string
	if creds != nil {
		if token, err = creds.Token(ctx); err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
	}

	resp, err := c.send(ctx, req, body, ctype, token)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && creds != nil {
		fresh, err := creds.Refresh(ctx, token)
		if err != nil {
			return err
		}
		c.metrics.Retry(ctx)
		applog.L().Debug("api.retry", zap.String("method", req.Method), zap.String("path", req.Path))
		if resp, err = c.send(ctx, req, body, ctype, fresh); err != nil {
			return err
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return newAPIError(resp.status, resp.body)
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req Request, body []byte, ctype, token string) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, u, rdr)
	if err != nil {
		return response{}, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if ctype != "" {
		hr.Header.Set("Content-Type", ctype)
	}
	hr.Header.Set("Accept", "application/json")
	if token != "" {
		hr.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(hr)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return response{}, fmt.Errorf("read %s %s: %w", req.Method, req.Path, err)
	}
	return response{status: res.StatusCode, body: b}, nil
}

func (r Request) encode() ([]byte, string, error) {
	if r.RawBody != nil {
		return r.RawBody, r.ContentType, nil
	}
	if r.Body == nil {
		return nil, r.ContentType, nil
	}
	b, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	ctype := r.ContentType
	if ctype == "" {
		ctype = "application/json"
	}
	return b, ctype, nil
}

func (c *Client) Get(ctx context.Context, creds Credentials, path string, q url.Values, out any) error {
	return c.Do(ctx, creds, Request{Method: http.MethodGet, Path: path, Query: q}, out)
}

func (c *Client) Post(ctx context.Context, creds Credentials, path string, body, out any) error {
	return c.Do(ctx, creds, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, creds Credentials, path string, body, out any) error {
	return c.Do(ctx, creds, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, creds Credentials, path string, body, out any) error {
	return c.Do(ctx, creds, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, creds Credentials, path string, q url.Values, out any) error {
	return c.Do(ctx, creds, Request{Method: http.MethodDelete, Path: path, Query: q}, out)
}

// Login exchanges a contact number and password for a token pair.
func (c *Client) Login(ctx context.Context, contact, password string) (domain.TokenPair, error) {
	form := url.Values{}
	form.Set("username", contact)
	form.Set("password", password)
	var pair domain.TokenPair
	err := c.Do(ctx, nil, Request{
		Method:      http.MethodPost,
		Path:        "/token",
		RawBody:     []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}, &pair)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if pair.AccessToken == "" {
		return domain.TokenPair{}, fmt.Errorf("login: empty access token")
	}
	return pair, nil
}

// RefreshToken calls the refresh endpoint directly; it never goes through
// the retry path. The API answers with a new access token only, so the
// returned pair usually has an empty RefreshToken.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.Post(ctx, nil, c.refreshPath, map[string]string{"refresh_token": refreshToken}, &pair)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if pair.AccessToken == "" {
		return domain.TokenPair{}, fmt.Errorf("refresh: empty access token")
	}
	return pair, nil
}
