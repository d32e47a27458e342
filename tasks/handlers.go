package tasks

// This file is the "Controller" layer for the task routes, the Go counterpart of a
// `TaskController` in Nest.js. Routes that act on the caller's own tasks sit behind
// the auth middleware, which puts the resolved user in the request context.

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
	"github.com/user/taskmanager-go/webutil"
)

// Response messages.
const (
	MsgNoTasks      = "No tasks found."
	MsgTasksFetched = "Tasks fetched successfully."
	MsgTaskFetched  = "Task fetched successfully."
	MsgTaskCreated  = "Task created successfully."
	MsgTaskUpdated  = "Task updated successfully."
	MsgTaskDeleted  = "Task deleted successfully."
)

// Handlers wraps the TaskService to provide HTTP handlers.
type Handlers struct {
	service *TaskService
	rs      *webutil.Responder
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *TaskService, rs *webutil.Responder) *Handlers {
	return &Handlers{service: service, rs: rs}
}

// RegisterRoutes mounts the task routes on r (mounted at /api/v1/task). requireAuth
// guards every route except the two administrative listings.
func (h *Handlers) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/get-all", h.HandleGetAll())
	r.Get("/get-paginated-tasks", h.HandleGetPaginated())

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/get-tasks", h.HandleGetOwned(nil))
		r.Get("/get-complete", h.HandleGetOwned(boolPtr(true)))
		r.Get("/get-incomplete", h.HandleGetOwned(boolPtr(false)))
		r.Get("/get/{id}", h.HandleGet())
		r.Post("/create", h.HandleCreate())
		r.Put("/update-complete-task/{id}", h.HandleUpdate())
		r.Patch("/update-task/{id}", h.HandleUpdate())
		r.Delete("/delete-task/{id}", h.HandleDelete())
	})
}

// HandleGetAll godoc
// @Summary List all tasks
// @Description Returns every task of every user, oldest first.
// @Tags Task
// @Produce json
// @Success 200 {object} webutil.Envelope{data=[]tasks.Task}
// @Failure 500 {object} apperror.ErrorResponse
// @Router /task/get-all [get]
func (h *Handlers) HandleGetAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := h.service.ListAll(r.Context())
		h.respondList(w, r, tasks, err)
	}
}

// HandleGetPaginated godoc
// @Summary List all tasks, one page at a time
// @Tags Task
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} webutil.Envelope{data=[]tasks.Task}
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /task/get-paginated-tasks [get]
func (h *Handlers) HandleGetPaginated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := ParsePage(q.Get("page"), q.Get("limit"))
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		tasks, err := h.service.ListPage(r.Context(), page)
		h.respondList(w, r, tasks, err)
	}
}

// HandleGetOwned godoc
// @Summary List the caller's tasks
// @Description `/get-tasks` returns all of them, `/get-complete` and `/get-incomplete` filter on completion.
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Success 200 {object} webutil.Envelope{data=[]tasks.Task}
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /task/get-tasks [get]
// @Router /task/get-complete [get]
// @Router /task/get-incomplete [get]
func (h *Handlers) HandleGetOwned(completed *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.caller(w, r)
		if !ok {
			return
		}
		tasks, err := h.service.ListOwned(r.Context(), user.ID, completed)
		h.respondList(w, r, tasks, err)
	}
}

// HandleGet godoc
// @Summary Get a task by id
// @Description Any authenticated user can read any task.
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task id"
// @Success 200 {object} webutil.Envelope{data=tasks.Task}
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /task/get/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		h.rs.Message(w, http.StatusOK, MsgTaskFetched, task)
	}
}

// HandleCreate godoc
// @Summary Create a task
// @Tags Task
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body tasks.CreateTaskRequest true "New task"
// @Success 201 {object} webutil.Envelope{data=tasks.Task}
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /task/create [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.caller(w, r)
		if !ok {
			return
		}
		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.rs.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}

		task, err := h.service.Create(r.Context(), user.ID, req)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		h.rs.Message(w, http.StatusCreated, MsgTaskCreated, task)
	}
}

// HandleUpdate godoc
// @Summary Update one of the caller's tasks
// @Description PUT and PATCH behave the same: only the fields present in the body change.
// @Tags Task
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task id"
// @Param body body tasks.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} webutil.Envelope{data=tasks.Task}
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /task/update-complete-task/{id} [put]
// @Router /task/update-task/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.caller(w, r)
		if !ok {
			return
		}
		var req UpdateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.rs.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}

		task, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		h.rs.Message(w, http.StatusOK, MsgTaskUpdated, task)
	}
}

// HandleDelete godoc
// @Summary Delete one of the caller's tasks
// @Tags Task
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task id"
// @Success 200 {object} webutil.Envelope{data=tasks.Task}
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /task/delete-task/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.caller(w, r)
		if !ok {
			return
		}
		task, err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		h.rs.Message(w, http.StatusOK, MsgTaskDeleted, task)
	}
}

// caller returns the authenticated user, writing a 401 when the route was reached
// without the middleware having run.
func (h *Handlers) caller(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.rs.Error(w, r, apperror.NewAuthError(auth.MsgTokenMissing, nil))
		return nil, false
	}
	return user, true
}

// respondList writes a task list. An empty list is still a success, with a null `data`.
func (h *Handlers) respondList(w http.ResponseWriter, r *http.Request, tasks []Task, err error) {
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if len(tasks) == 0 {
		h.rs.Message(w, http.StatusOK, MsgNoTasks, nil)
		return
	}
	h.rs.Message(w, http.StatusOK, MsgTasksFetched, tasks)
}

func boolPtr(b bool) *bool { return &b }
