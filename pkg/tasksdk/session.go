package tasksdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshBuffer is how long before expiry the access token is renewed.
const refreshBuffer = 30 * time.Second

// Session is one logged-in user.
type Session struct {
	client *Client
	user   UserSummary

	mu        sync.RWMutex
	access    string
	refresh   string
	expiresAt time.Time
}

// NewSession wraps tokens obtained elsewhere.
func (c *Client) NewSession(access, refresh string, user UserSummary) *Session {
	return &Session{
		client:    c,
		user:      user,
		access:    access,
		refresh:   refresh,
		expiresAt: accessExpiry(access),
	}
}

// accessExpiry reads exp without verifying the signature; the server does
// that. An unreadable token counts as already expired.
func accessExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Add(-refreshBuffer)
}

func (s *Session) User() UserSummary { return s.user }

// Tokens returns the current access and refresh tokens.
func (s *Session) Tokens() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

// Refresh rotates the refresh token now, whatever the access token's age.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	resp, err := s.client.Refresh(ctx, s.refresh)
	if err != nil {
		return err
	}
	s.access = resp.Access
	s.refresh = resp.Refresh
	s.expiresAt = accessExpiry(resp.Access)
	return nil
}

func (s *Session) token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		tok := s.access
		s.mu.RUnlock()
		return tok, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Now().Before(s.expiresAt) {
		return s.access, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.access, nil
}

func (s *Session) call(ctx context.Context, method, path string, body, out any, expected int) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	return s.client.call(ctx, method, path, tok, body, out, expected)
}

// Logout revokes the refresh token and the current access token.
func (s *Session) Logout(ctx context.Context) error {
	access, refresh := s.Tokens()
	var out MessageResponse
	return s.client.call(ctx, http.MethodPost, "/logout", access, LogoutRequest{Refresh: refresh}, &out, http.StatusOK)
}

// LogoutWith sends an arbitrary refresh token to /logout, authenticated as
// this session.
func (s *Session) LogoutWith(ctx context.Context, refresh string) (*MessageResponse, error) {
	var out MessageResponse
	if err := s.call(ctx, http.MethodPost, "/logout", LogoutRequest{Refresh: refresh}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers lists users, optionally only those with role.
func (s *Session) ListUsers(ctx context.Context, role string) ([]UserSummary, error) {
	path := "/users"
	if role != "" {
		path += "?" + url.Values{"role": {role}}.Encode()
	}
	var out []UserSummary
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) ListTasks(ctx context.Context, p ListTasksParams) (*TaskList, error) {
	q := url.Values{}
	if p.Developer != "" {
		q.Set("developer", p.Developer)
	}
	if p.IsDone != nil {
		q.Set("is_done", strconv.FormatBool(*p.IsDone))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}

	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return s.ListTasksURL(ctx, path)
}

// ListTasksURL fetches a page by path or by the absolute Next/Previous URL
// of an earlier page.
func (s *Session) ListTasksURL(ctx context.Context, pathOrURL string) (*TaskList, error) {
	if u, err := url.Parse(pathOrURL); err == nil && u.IsAbs() {
		pathOrURL = u.RequestURI()
	}
	var out TaskList
	if err := s.call(ctx, http.MethodGet, pathOrURL, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var out Task
	if err := s.call(ctx, http.MethodPost, "/tasks", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetTask(ctx context.Context, id string) (*Task, error) {
	var out Task
	if err := s.call(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask sends a PATCH with only the fields set in req.
func (s *Session) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	return s.writeTask(ctx, http.MethodPatch, id, req)
}

// ReplaceTask sends the same payload as a PUT. The server treats both alike.
func (s *Session) ReplaceTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	return s.writeTask(ctx, http.MethodPut, id, req)
}

func (s *Session) writeTask(ctx context.Context, method, id string, req UpdateTaskRequest) (*Task, error) {
	var out Task
	if err := s.call(ctx, method, "/tasks/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.call(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}
