package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/policy"
)

// Error kinds. Handlers switch on these with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidToken = errors.New("invalid token")
)

// Messages callers see verbatim.
const (
	MsgTaskNotFound   = "Task not found"
	MsgBadCredentials = "No active account found with the given credentials"
	MsgRefreshInvalid = "Token is invalid or expired"
	MsgInvalidToken   = "Invalid token"
	MsgUsernameTaken  = "A user with that username already exists."

	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
	msgBlank    = "This field may not be blank."
)

// Error is a failure of a known kind with the message to show the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// ValidationError collects per-field problems with the input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when at least one field failed, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + strings.Join(e.Fields[k], " ")
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// FromPolicy turns a policy denial into a Forbidden error carrying its reason.
func FromPolicy(err error) error {
	var d *policy.Denial
	if errors.As(err, &d) {
		return newError(ErrForbidden, d.Reason)
	}
	return err
}

// Message returns the caller-facing text of err, or "" when err carries none.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
