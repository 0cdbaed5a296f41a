package http

import (
	"net/http"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

type UsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles the list users endpoint
//
//	@Summary		List users
//	@Description	Returns users ordered by username, optionally only those with the given role.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			role	query		string					false	"lead or developer"
//	@Success		200		{array}		tasksdk.UserSummary		"Users"
//	@Failure		401		{object}	tasksdk.ErrorResponse	"Missing or invalid access token"
//	@Failure		500		{object}	tasksdk.ErrorResponse	"Internal server error"
//	@Router			/users [get].
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]tasksdk.UserSummary, len(users))
	for i, u := range users {
		out[i] = userSummary(u.Actor())
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
