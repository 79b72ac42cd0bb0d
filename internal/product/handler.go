// AngelaMos | 2026
// handler.go

package product

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

// RegisterRoutes mounts the catalogue. identify should attach the caller
// when a token is present without rejecting anonymous reads.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	identify func(http.Handler) http.Handler,
) {
	gate := permission.ProductPolicy.Gate

	r.Route("/products", func(r chi.Router) {
		r.Use(identify)

		r.With(gate(permission.ActionList)).Get("/", h.List)
		r.With(gate(permission.ActionCreate)).Post("/", h.Create)
		r.With(gate(permission.ActionRetrieve)).Get("/{productID}", h.Get)
		r.With(gate(permission.ActionUpdate)).Put("/{productID}", h.Update)
		r.With(gate(permission.ActionUpdate)).Patch("/{productID}", h.Update)
		r.With(gate(permission.ActionDelete)).Delete("/{productID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Products retrieved successfully", ToProductResponseList(products))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Product created successfully", ToProductResponse(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := core.UUIDParam(r, "productID")
	if !ok {
		core.NotFound(w, "Product")
		return
	}

	p, err := h.service.Get(r.Context(), productID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Product retrieved successfully", ToProductResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := core.UUIDParam(r, "productID")
	if !ok {
		core.NotFound(w, "Product")
		return
	}

	var req UpdateProductRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), productID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "Product updated successfully", ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := core.UUIDParam(r, "productID")
	if !ok {
		core.NotFound(w, "Product")
		return
	}

	if err := h.service.Delete(r.Context(), productID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
