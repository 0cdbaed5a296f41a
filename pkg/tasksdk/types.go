package tasksdk

import (
	"encoding/json"

	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
)

const (
	RoleLead      = "lead"
	RoleDeveloper = "developer"

	// TimeLayout is how every timestamp is rendered, in the server's zone.
	TimeLayout = "2006-01-02 15:04:05"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrorResponse is the body of every error. Fields is only present for
// validation failures.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SignupResponse struct {
	User    UserSummary `json:"user"`
	Message string      `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    UserSummary `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// Task is a task as the API renders it. Timestamps use TimeLayout.
type Task struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	IsDone            bool    `json:"is_done"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	CompletedAt       *string `json:"completed_at"`
	Developer         *string `json:"developer"`
	DeveloperUsername *string `json:"developer_username"`
}

// TaskList is one page of tasks. Next and Previous are absolute URLs, or
// null at either end.
type TaskList struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Task  `json:"results"`
}

// CreateTaskRequest creates a task owned by the caller. Developer may hold
// any JSON value and is ignored.
type CreateTaskRequest struct {
	Title       Optional[string] `json:"title,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	IsDone      Optional[bool]   `json:"is_done,omitzero"`
	Developer   json.RawMessage  `json:"developer,omitempty" swaggertype:"object"`
}

// UpdateTaskRequest changes only the fields that are set. Developer is read
// only: any value is ignored.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	IsDone      Optional[bool]   `json:"is_done,omitzero"`
	Developer   json.RawMessage  `json:"developer,omitempty" swaggertype:"object"`
}

// RawValue encodes v for a field the server accepts but ignores, such as
// Developer. It panics if v cannot be encoded.
func RawValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// ListTasksParams are the query parameters of GET /tasks. Zero values are
// not sent.
type ListTasksParams struct {
	Developer string
	IsDone    *bool
	Page      int
	PageSize  int
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Cache    string `json:"cache,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type JWKSResponse jwtx.JWKS
