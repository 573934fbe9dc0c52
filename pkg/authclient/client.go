// Package authclient is a session-aware Go client for the auth service.
// It holds at most one active session token: an in-memory mirror plus a
// TokenStore for durability. After login or register the token is attached
// automatically as a bearer credential to every outgoing request.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/screenhub/auth-service/internal/core/domain"
	"github.com/screenhub/auth-service/internal/token"
)

// APIError is a non-2xx response from the service, carrying the server's
// human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth service: %s (status %d)", e.Message, e.Status)
}

// Client talks to the auth service HTTP API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu    sync.RWMutex
	token string
}

// New creates a Client for the service at baseURL (e.g. "http://localhost:5000").
// A nil store defaults to an in-memory one; a nil httpClient defaults to a
// 10-second-timeout client. Any token already in the store is picked up, so
// a restarted process resumes its session.
func New(baseURL string, store TokenStore, httpClient *http.Client) (*Client, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: httpClient,
	}

	// Attach the bearer credential transparently to every request.
	c.httpClient.Transport = &bearerTransport{
		base:  httpClient.Transport,
		token: c.Token,
	}

	tok, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load stored token: %w", err)
	}
	c.token = tok

	return c, nil
}

// Register creates a new account and stores the returned session token.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &resp); err != nil {
		return nil, err
	}
	if err := c.setToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and stores the returned session token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, err
	}
	if err := c.setToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user's record using the stored session.
func (c *Client) Profile(ctx context.Context) (*domain.ProfileResponse, error) {
	var resp domain.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestDB calls the service's database connectivity probe.
func (c *Client) TestDB(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/test-db", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout discards the session token from both the store and the mirror.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return c.store.Clear()
}

// IsAuthenticated reports whether a token is held. It is a pure presence
// check: an expired token still counts until the next request fails.
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

// Token returns the current session token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CurrentUser decodes the held token's claims WITHOUT verifying the
// signature. The result is for display only and must never be used for
// authorization; the service re-verifies every protected request.
func (c *Client) CurrentUser() (*token.Claims, error) {
	tok := c.Token()
	if tok == "" {
		return nil, fmt.Errorf("no session token held")
	}
	return token.DecodeUnverified(tok)
}

func (c *Client) setToken(tok string) error {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
	if err := c.store.Save(tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// do executes one JSON round trip. Non-2xx responses become *APIError with
// the server's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// bearerTransport attaches the current session token to outgoing requests.
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.token(); tok != "" && req.Header.Get("Authorization") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
