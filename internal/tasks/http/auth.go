package http

import (
	"net/http"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

// AuthHandler serves signup and the session lifecycle.
type AuthHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
}

// HandleSignup handles POST /signup
//
//	@Summary		Sign up
//	@Description	Creates an inactive user with the lead or developer role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.SignupRequest	true	"username, password, role"
//	@Success		201		{object}	tasksdk.SignupResponse	"The created user"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid input, with per-field messages"
//	@Failure		429		{object}	tasksdk.ErrorResponse	"Too many requests"
//	@Router			/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.UserService.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tasksdk.SignupResponse{
		User:    userSummary(u.Actor()),
		Message: "User Created Successfully",
	})
}

// HandleLogin handles POST /login
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access token and a refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.LoginRequest	true	"username, password"
//	@Success		200		{object}	tasksdk.LoginResponse	"access, refresh, user"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Missing fields"
//	@Failure		401		{object}	tasksdk.ErrorResponse	"Bad credentials"
//	@Failure		429		{object}	tasksdk.ErrorResponse	"Too many requests"
//	@Router			/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.SessionService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tasksdk.LoginResponse{
		Access:  s.AccessToken,
		Refresh: s.RefreshToken,
		User:    userSummary(s.User),
	})
}

// HandleRefresh handles POST /token/refresh
//
//	@Summary		Refresh tokens
//	@Description	Rotates a refresh token. The presented token is revoked; replaying it later revokes every session of its user.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.RefreshRequest	true	"refresh"
//	@Success		200		{object}	tasksdk.RefreshResponse	"access, refresh"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Missing refresh token"
//	@Failure		401		{object}	tasksdk.ErrorResponse	"Token is invalid or expired"
//	@Router			/token/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.SessionService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tasksdk.RefreshResponse{
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

// HandleLogout handles POST /logout
//
//	@Summary		Log out
//	@Description	Revokes the given refresh token and the access token used for the request.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tasksdk.LogoutRequest	true	"refresh"
//	@Success		200		{object}	tasksdk.MessageResponse	"Successfully logged out"
//	@Failure		400		{object}	tasksdk.ErrorResponse	"Invalid token"
//	@Failure		401		{object}	tasksdk.ErrorResponse	"Missing or invalid access token"
//	@Router			/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, &service.Error{Kind: service.ErrUnauthorized, Message: "Authentication credentials were not provided."})
		return
	}

	// Any unreadable body is just an invalid token here.
	var req tasksdk.LogoutRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, r, &service.Error{Kind: service.ErrInvalidToken, Message: service.MsgInvalidToken})
		return
	}

	if err := h.SessionService.Logout(r.Context(), claims, req.Refresh); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tasksdk.MessageResponse{Message: "Successfully logged out"})
}

func userSummary(a domain.Actor) tasksdk.UserSummary {
	return tasksdk.UserSummary{ID: a.ID, Username: a.Username, Role: a.Role.String()}
}
