// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

type recordingRegistrar struct {
	calls []string
}

func (r *recordingRegistrar) Register(
	_ context.Context,
	role string,
	req RegisterRequest,
) (*RegisterResponse, error) {
	r.calls = append(r.calls, role)
	return &RegisterResponse{
		User:    RegisteredUser{ID: "u-1", Username: req.User.Username},
		Profile: map[string]any{"role": role},
	}, nil
}

func newAuthRouter(t *testing.T) (chi.Router, *harness, *recordingRegistrar) {
	t.Helper()

	h := newHarness(t)
	reg := &recordingRegistrar{}

	r := chi.NewRouter()
	NewHandler(h.svc, reg).RegisterRoutes(r, middleware.Authenticator(h.svc), nil)
	return r, h, reg
}

func call(
	t *testing.T,
	router http.Handler,
	method, path, body, token string,
) (int, core.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env core.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	router, _, reg := newAuthRouter(t)

	code, env := call(t, router, http.MethodPost, "/register/admin",
		`{"user":{"username":"x","password":"longenough"}}`, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid role", env.Message)
	assert.Equal(t, "Invalid role", env.Error)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Empty(t, reg.calls)
}

func TestRegisterValidatesNestedUser(t *testing.T) {
	router, _, reg := newAuthRouter(t)

	code, env := call(t, router, http.MethodPost, "/register/customer",
		`{"user":{"username":"bad name!","password":"short"},"phone":"0123456789012345"}`, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid data", env.Message)

	errs := env.Error.(map[string]any)
	assert.Contains(t, errs, "user.username")
	assert.Equal(t, []any{"Ensure this field has at least 8 characters."}, errs["user.password"])
	assert.Equal(t, []any{"Ensure this field has no more than 15 characters."}, errs["phone"])
	assert.Empty(t, reg.calls)
}

func TestRegisterCreated(t *testing.T) {
	router, _, reg := newAuthRouter(t)

	code, env := call(t, router, http.MethodPost, "/register/employee",
		`{"user":{"username":"ben","password":"longenough"},"position":"Sales"}`, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User created", env.Message)
	assert.Equal(t, []string{RoleEmployee}, reg.calls)
}

func TestLoginAndMe(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	code, env := call(t, router, http.MethodPost, "/login",
		`{"username":"alice","password":"nope"}`, "")
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env = call(t, router, http.MethodPost, "/token",
		`{"username":"alice","password":"`+alicePassword+`"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", env.Message)

	data := env.Data.(map[string]any)
	access := data["access"].(string)
	assert.NotEmpty(t, data["refresh"])

	code, env = call(t, router, http.MethodGet, "/auth/me", "", access)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", env.Data.(map[string]any)["username"])

	code, _ = call(t, router, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, router, http.MethodPost, "/auth/logout", "", access)
	require.Equal(t, http.StatusNoContent, code)

	code, env = call(t, router, http.MethodGet, "/auth/me", "", access)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", env.Message)
}

func TestRefreshReuseResponse(t *testing.T) {
	router, h, _ := newAuthRouter(t)
	first := h.login(t)

	code, env := call(t, router, http.MethodPost, "/token/refresh",
		`{"refresh":"`+first.Refresh+`"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Token refreshed", env.Message)

	code, env = call(t, router, http.MethodPost, "/token/refresh",
		`{"refresh":"`+first.Refresh+`"}`, "")
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token reuse detected, all sessions revoked", env.Message)

	code, env = call(t, router, http.MethodPost, "/token/refresh", `{}`, "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"This field is required."}, env.Error.(map[string]any)["refresh"])
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	router, h, _ := newAuthRouter(t)
	resp := h.login(t)

	code, env := call(t, router, http.MethodPost, "/auth/change-password",
		`{"current_password":"nope","new_password":"brand new secret"}`, resp.Access)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"Current password is incorrect."},
		env.Error.(map[string]any)["current_password"])
}
