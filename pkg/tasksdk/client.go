package tasksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the unauthenticated endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Signup registers a new, inactive user.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.call(ctx, http.MethodPost, "/signup", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginRaw exchanges credentials for tokens without opening a Session.
func (c *Client) LoginRaw(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Username: username, Password: password}
	if err := c.call(ctx, http.MethodPost, "/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns a Session holding the issued tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.LoginRaw(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(resp.Access, resp.Refresh, resp.User), nil
}

// Refresh rotates a refresh token. The one passed in is spent either way.
func (c *Client) Refresh(ctx context.Context, refresh string) (*RefreshResponse, error) {
	var out RefreshResponse
	req := RefreshRequest{Refresh: refresh}
	if err := c.call(ctx, http.MethodPost, "/token/refresh", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/livez", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz returns the readiness report. A degraded service answers 503, which
// comes back as an *APIError.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/readyz", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.call(ctx, http.MethodGet, "/.well-known/jwks.json", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// call sends body as JSON, with a bearer token when token is non-empty, and
// decodes the response into out unless out is nil.
func (c *Client) call(
	ctx context.Context,
	method, path, token string,
	body, out any,
	expectedStatus int,
) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
