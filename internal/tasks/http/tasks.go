package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/policy"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

// TasksHandler serves the task collection and task detail endpoints.
type TasksHandler struct {
	TaskService  *service.TaskService
	QueryService *service.TaskQueryService
	Location     *time.Location
}

// HandleList handles GET /tasks
//
//	@Summary		List tasks
//	@Description	Leads see every task and may filter by developer. Developers only see their own tasks.
//	@Description	Results are newest first and paginated.
//	@Tags			Tasks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			developer	query		string					false	"Developer id (leads only)"
//	@Param			is_done		query		string					false	"true or false"
//	@Param			page		query		int						false	"Page number, from 1"
//	@Param			page_size	query		int						false	"Page size, at most 100"
//	@Success		200			{object}	tasksdk.TaskList		"One page of tasks"
//	@Failure		400			{object}	tasksdk.ErrorResponse	"Invalid page or page size"
//	@Failure		401			{object}	tasksdk.ErrorResponse	"Missing or invalid access token"
//	@Router			/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.QueryService.List(r.Context(), a, service.TaskQuery{
		Developer: param(q, "developer"),
		IsDone:    param(q, "is_done"),
		Page:      param(q, "page"),
		PageSize:  param(q, "page_size"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, renderPage(r, page, h.Location))
}

// HandleCreate handles POST /tasks
//
//	@Summary		Create task
//	@Description	Creates a task owned by the calling developer. Leads cannot create tasks.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tasksdk.CreateTaskRequest	true	"title, description, is_done"
//	@Success		201		{object}	tasksdk.Task				"The created task"
//	@Failure		400		{object}	tasksdk.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	tasksdk.ErrorResponse		"Missing or invalid access token"
//	@Failure		403		{object}	tasksdk.ErrorResponse		"Leads cannot create tasks"
//	@Router			/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	// A lead is refused whatever the body holds.
	if err := policy.CanCreateTask(a); err != nil {
		writeError(w, r, service.FromPolicy(err))
		return
	}

	var req tasksdk.CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	task, err := h.TaskService.Create(r.Context(), a, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, renderTask(task, h.Location))
}

// HandleGet handles GET /tasks/{id}
//
//	@Summary		Get task
//	@Description	Leads may read any task; developers only their own.
//	@Tags			Tasks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Task id"
//	@Success		200	{object}	tasksdk.Task			"The task"
//	@Failure		401	{object}	tasksdk.ErrorResponse	"Missing or invalid access token"
//	@Failure		403	{object}	tasksdk.ErrorResponse	"Access denied"
//	@Failure		404	{object}	tasksdk.ErrorResponse	"Task not found"
//	@Router			/tasks/{id} [get].
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	task, err := h.TaskService.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, renderTask(task, h.Location))
}

// HandleUpdate handles PUT and PATCH /tasks/{id}. Both are partial.
//
//	@Summary		Update task
//	@Description	Changes the fields present in the body. The owning developer only; leads cannot update tasks.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Task id"
//	@Param			request	body		tasksdk.UpdateTaskRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.Task				"The updated task"
//	@Failure		400		{object}	tasksdk.ErrorResponse		"Invalid input"
//	@Failure		401		{object}	tasksdk.ErrorResponse		"Missing or invalid access token"
//	@Failure		403		{object}	tasksdk.ErrorResponse		"Access denied, or leads cannot update tasks"
//	@Failure		404		{object}	tasksdk.ErrorResponse		"Task not found"
//	@Router			/tasks/{id} [put]
//	@Router			/tasks/{id} [patch].
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	// A bad body is only reported once the task is found and writable.
	var req tasksdk.UpdateTaskRequest
	bodyErr := readBody(w, r, &req)

	task, err := h.TaskService.Update(r.Context(), a, r.PathValue("id"), service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
		BodyErr:     bodyErr,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, renderTask(task, h.Location))
}

// HandleDelete handles DELETE /tasks/{id}
//
//	@Summary		Delete task
//	@Description	The owning developer only; leads cannot delete tasks.
//	@Tags			Tasks
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Task id"
//	@Success		204	"No content"
//	@Failure		401	{object}	tasksdk.ErrorResponse	"Missing or invalid access token"
//	@Failure		403	{object}	tasksdk.ErrorResponse	"Access denied, or leads cannot delete tasks"
//	@Failure		404	{object}	tasksdk.ErrorResponse	"Task not found"
//	@Router			/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// param returns nil when key is absent from q and its first value otherwise.
func param(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}
