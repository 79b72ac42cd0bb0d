// AngelaMos | 2026
// handler.go

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/permission"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	gate := permission.TaskPolicy.Gate

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticator)

		r.With(gate(permission.ActionList)).Get("/", h.List)
		r.With(gate(permission.ActionCreate)).Post("/", h.Create)
		r.With(gate(permission.ActionRetrieve)).Get("/{taskID}", h.Get)
		r.With(gate(permission.ActionUpdate)).Put("/{taskID}", h.Update)
		r.With(gate(permission.ActionUpdate)).Patch("/{taskID}", h.Update)
		r.With(gate(permission.ActionDelete)).Delete("/{taskID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListTasksParams{Status: r.URL.Query().Get("status")}

	tasks, err := h.service.List(r.Context(), permission.FromContext(r.Context()), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Tasks retrieved successfully", ToTaskResponseList(tasks))
}

// ListForEmployee serves GET /employees/{employeeID}/tasks.
func (h *Handler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.UUIDParam(r, "employeeID")
	if !ok {
		core.NotFound(w, "Employee")
		return
	}

	params := ListTasksParams{Status: r.URL.Query().Get("status")}

	tasks, err := h.service.ListForEmployee(
		r.Context(),
		permission.FromContext(r.Context()),
		employeeID,
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Tasks retrieved successfully", ToTaskResponseList(tasks))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Task created successfully", ToTaskResponse(t))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, "Task")
		return
	}

	t, err := h.service.Get(r.Context(), permission.FromContext(r.Context()), taskID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Task retrieved successfully", ToTaskResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, "Task")
		return
	}

	var req UpdateTaskRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	t, err := h.service.Update(r.Context(), permission.FromContext(r.Context()), taskID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Task updated successfully", ToTaskResponse(t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, "Task")
		return
	}

	if err := h.service.Delete(r.Context(), taskID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
