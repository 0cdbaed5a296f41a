package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

// writeError maps a service error to its status and body. Anything it does
// not recognise is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *tasksdk.APIError
	if errors.As(err, &apiErr) {
		apiErr.WriteError(w)
		return
	}

	var v *service.ValidationError
	if errors.As(err, &v) {
		apiErr := tasksdk.NewAPIError(http.StatusBadRequest, tasksdk.MsgInvalidInput)
		apiErr.Fields = v.Fields
		apiErr.WriteError(w)
		return
	}

	msg := service.Message(err)
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		tasksdk.NewAPIError(http.StatusBadRequest, msg).WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		tasksdk.NewAPIError(http.StatusUnauthorized, msg).WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		tasksdk.NewAPIError(http.StatusForbidden, msg).WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		tasksdk.NewAPIError(http.StatusNotFound, msg).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		tasksdk.ErrInternal.WriteError(w)
	}
}

// decode reads the JSON body into dst. An absent body leaves dst zero so
// the service reports the missing fields. It writes the response and
// returns false when the body cannot be used.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readBody(w, r, dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

// readBody is decode without the response: an unusable body comes back as
// the *tasksdk.APIError to send, so callers can report it later.
func readBody(w http.ResponseWriter, r *http.Request, dst any) error {
	err := httpx.DecodeJSON(w, r, dst)
	if err == nil || errors.Is(err, httpx.ErrEmptyBody) {
		return nil
	}

	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return tasksdk.ErrTooLarge
	}

	slogx.FromContext(r.Context()).Info("malformed request body", "error", err)
	return tasksdk.ErrMalformed
}

// actor rebuilds the caller from the claims AuthnMiddleware verified.
func actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, &service.Error{Kind: service.ErrUnauthorized, Message: "Authentication credentials were not provided."})
		return domain.Actor{}, false
	}
	a, err := service.ActorFromClaims(claims)
	if err != nil {
		writeError(w, r, err)
		return domain.Actor{}, false
	}
	return a, true
}
