// AngelaMos | 2026
// handler.go

package customer

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
	gate := permission.CustomerPolicy.Gate

	r.Route("/customers", func(r chi.Router) {
		r.Use(authenticator)

		r.With(gate(permission.ActionList)).Get("/", h.List)
		r.With(gate(permission.ActionCreate)).Post("/", h.Create)
		r.With(gate(permission.ActionRetrieve)).Get("/{customerID}", h.Get)
		r.With(gate(permission.ActionUpdate)).Put("/{customerID}", h.Update)
		r.With(gate(permission.ActionUpdate)).Patch("/{customerID}", h.Update)
		r.With(gate(permission.ActionDelete)).Delete("/{customerID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Customers retrieved successfully", ToCustomerResponseList(customers))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Customer created successfully", ToCustomerResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := core.UUIDParam(r, "customerID")
	if !ok {
		core.NotFound(w, "Customer")
		return
	}

	c, err := h.service.Get(r.Context(), permission.FromContext(r.Context()), customerID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Customer retrieved successfully", ToCustomerResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	customerID, ok := core.UUIDParam(r, "customerID")
	if !ok {
		core.NotFound(w, "Customer")
		return
	}

	var req UpdateCustomerRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Update(
		r.Context(),
		permission.FromContext(r.Context()),
		customerID,
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Customer updated successfully", ToCustomerResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID, ok := core.UUIDParam(r, "customerID")
	if !ok {
		core.NotFound(w, "Customer")
		return
	}

	err := h.service.Delete(r.Context(), permission.FromContext(r.Context()), customerID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
