// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterAdminRoutes registers staff-only identity management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/staff", h.UpdateStaff)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

// ListUsers returns a paginated list of identities with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("is_staff"); raw != "" {
		if staff, err := strconv.ParseBool(raw); err == nil {
			params.IsStaff = &staff
		}
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Users retrieved successfully", UserListResponse{
		Users:    ToUserResponseList(users),
		Page:     params.Page,
		PageSize: params.PageSize,
		Total:    total,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NotFound(w, "User")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, "User retrieved successfully", ToUserResponse(user))
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NotFound(w, "User")
		return
	}

	var req UpdateStaffRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if fields := core.ValidateStruct(h.validator, req); !fields.Empty() {
		core.ValidationFailed(w, fields)
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	user, err := h.service.SetStaff(r.Context(), requesterID, userID, *req.IsStaff)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, "User updated successfully", ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NotFound(w, "User")
		return
	}

	requesterID := middleware.GetUserID(r.Context())
	if err := h.service.DeleteUser(r.Context(), requesterID, userID); err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "User")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "You cannot perform this action on this user.")
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
