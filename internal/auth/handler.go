// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// ValidRole reports whether role names a registrable profile kind.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleEmployee
}

type Handler struct {
	service   *Service
	registrar Registrar
	validator *validator.Validate
}

func NewHandler(service *Service, registrar Registrar) *Handler {
	return &Handler{
		service:   service,
		registrar: registrar,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the public credential endpoints and the
// authenticated session endpoints. limiter guards every credential
// endpoint and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Post("/register/{role}", h.Register)
		r.Post("/login", h.Login)
		r.Post("/token", h.Login)
		r.Post("/token/refresh", h.Refresh)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.GetMe)
		r.Post("/logout", h.Logout)
		r.Post("/logout-all", h.LogoutAll)
		r.Get("/sessions", h.GetSessions)
		r.Delete("/sessions/{sessionID}", h.RevokeSession)
		r.Post("/change-password", h.ChangePassword)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	if !ValidRole(role) {
		core.JSON(w, core.Envelope{
			Message: "Invalid role",
			Error:   "Invalid role",
			Status:  http.StatusBadRequest,
		})
		return
	}

	var req RegisterRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if fields := core.ValidateStruct(h.validator, req); !fields.Empty() {
		core.ValidationFailed(w, fields)
		return
	}

	resp, err := h.registrar.Register(r.Context(), role, req)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, "User created", resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if fields := core.ValidateStruct(h.validator, req); !fields.Empty() {
		core.ValidationFailed(w, fields)
		return
	}

	resp, err := h.service.Login(
		r.Context(),
		req,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "Invalid credentials")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Login successful", resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if fields := core.ValidateStruct(h.validator, req); !fields.Empty() {
		core.ValidationFailed(w, fields)
		return
	}

	resp, err := h.service.Refresh(
		r.Context(),
		req.Refresh,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenReuse):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenRevoked,
				"Token reuse detected, all sessions revoked",
				http.StatusUnauthorized,
				"TOKEN_REUSE_DETECTED",
			))
		case errors.Is(err, core.ErrTokenExpired):
			core.JSONError(w, core.TokenExpiredError())
		case errors.Is(err, core.ErrTokenRevoked):
			core.JSONError(w, core.TokenRevokedError())
		case errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, core.TokenInvalidError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, "Token refreshed", resp)
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	var req logoutRequest
	if r.ContentLength != 0 {
		if err := core.DecodeJSON(r, &req); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	if err := h.service.Logout(r.Context(), claims, req.Refresh); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "Cannot revoke another user's token")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.service.GetActiveSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "Sessions retrieved successfully", SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID, ok := core.UUIDParam(r, "sessionID")
	if !ok {
		core.NotFound(w, "Session")
		return
	}

	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Session")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "Cannot revoke another user's session")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChangePasswordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if fields := core.ValidateStruct(h.validator, req); !fields.Empty() {
		core.ValidationFailed(w, fields)
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		userID,
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			fields := core.FieldErrors{}
			fields.Add("current_password", "Current password is incorrect.")
			core.ValidationFailed(w, fields)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "User retrieved successfully", user)
}
