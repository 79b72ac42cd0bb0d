// AngelaMos | 2026
// handler.go

package employee

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

// RegisterRoutes mounts the employee endpoints. assignedTasks, when set,
// serves GET /employees/{employeeID}/tasks.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	assignedTasks http.HandlerFunc,
) {
	gate := permission.EmployeePolicy.Gate

	r.Route("/employees", func(r chi.Router) {
		r.Use(authenticator)

		r.With(gate(permission.ActionList)).Get("/", h.List)
		r.With(gate(permission.ActionCreate)).Post("/", h.Create)
		r.With(gate(permission.ActionRetrieve)).Get("/{employeeID}", h.Get)
		r.With(gate(permission.ActionUpdate)).Put("/{employeeID}", h.Update)
		r.With(gate(permission.ActionUpdate)).Patch("/{employeeID}", h.Update)
		r.With(gate(permission.ActionDelete)).Delete("/{employeeID}", h.Delete)

		if assignedTasks != nil {
			r.With(gate(permission.ActionRetrieve)).Get("/{employeeID}/tasks", assignedTasks)
		}
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Employees retrieved successfully", ToEmployeeResponseList(employees))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Employee created successfully", ToEmployeeResponse(e))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.UUIDParam(r, "employeeID")
	if !ok {
		core.NotFound(w, "Employee")
		return
	}

	e, err := h.service.Get(r.Context(), permission.FromContext(r.Context()), employeeID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Employee retrieved successfully", ToEmployeeResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.UUIDParam(r, "employeeID")
	if !ok {
		core.NotFound(w, "Employee")
		return
	}

	var req UpdateEmployeeRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	e, err := h.service.Update(
		r.Context(),
		permission.FromContext(r.Context()),
		employeeID,
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Employee updated successfully", ToEmployeeResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.UUIDParam(r, "employeeID")
	if !ok {
		core.NotFound(w, "Employee")
		return
	}

	err := h.service.Delete(r.Context(), permission.FromContext(r.Context()), employeeID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
