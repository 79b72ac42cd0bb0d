// AngelaMos | 2026
// handler_test.go

package employee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

// testAuth trusts X-User / X-Staff headers in place of a bearer token.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User")
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}
		ctx := middleware.WithIdentity(r.Context(), userID, r.Header.Get("X-Staff") == "1")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type fixture struct {
	repo   *memRepo
	router chi.Router
	admin  map[string]string
	owner  map[string]string
	other  map[string]string
	free   string
	emp    Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ownerID, otherID, freeID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	f := &fixture{
		repo:  newMemRepo(),
		admin: map[string]string{"X-User": uuid.NewString(), "X-Staff": "1"},
		owner: map[string]string{"X-User": ownerID},
		other: map[string]string{"X-User": otherID},
		free:  freeID,
	}

	f.emp = Employee{
		Profile:  profile.New(uuid.NewString(), ownerID, profile.Fields{Phone: strPtr("555")}),
		Position: strPtr("Sales"),
	}
	require.NoError(t, f.repo.Create(context.Background(), &f.emp))

	users := knownUsers{ownerID: true, otherID: true, freeID: true}
	assigned := func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, "Tasks retrieved successfully", []string{})
	}

	f.router = chi.NewRouter()
	NewHandler(NewService(f.repo, users)).RegisterRoutes(f.router, testAuth, assigned)
	return f
}

func (f *fixture) serve(
	t *testing.T,
	method, path, body string,
	headers map[string]string,
) (int, core.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env core.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestListRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	code, _ := f.serve(t, http.MethodGet, "/employees", "", f.owner)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.serve(t, http.MethodGet, "/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := f.serve(t, http.MethodGet, "/employees", "", f.admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employees retrieved successfully", env.Message)
	require.Len(t, env.Data, 1)

	item := env.Data.([]any)[0].(map[string]any)
	assert.Equal(t, f.emp.ID, item["id"])
	assert.Equal(t, "Sales", item["position"])
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	body := `{"user":"` + f.free + `","position":"Support"}`

	code, _ := f.serve(t, http.MethodPost, "/employees", body, f.owner)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := f.serve(t, http.MethodPost, "/employees", body, f.admin)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Employee created successfully", env.Message)
	data := env.Data.(map[string]any)
	assert.Equal(t, f.free, data["user"])
	assert.Equal(t, "Support", data["position"])
	assert.Equal(t, true, data["is_active"])

	code, env = f.serve(t, http.MethodPost, "/employees", body, f.admin)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t,
		[]any{"employee with this user already exists."},
		env.Error.(map[string]any)["user"],
	)
}

func TestCreateReportsWrongTypesWithOtherErrors(t *testing.T) {
	f := newFixture(t)

	code, env := f.serve(t, http.MethodPost, "/employees",
		`{"position":12,"is_active":"no","phone":"`+strings.Repeat("9", 16)+`"}`, f.admin)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid data", env.Message)

	errs := env.Error.(map[string]any)
	assert.Equal(t, []any{"Not a valid string."}, errs["position"])
	assert.Equal(t, []any{"Must be a valid boolean."}, errs["is_active"])
	assert.Equal(t, []any{"This field is required."}, errs["user"])
	assert.Equal(t, []any{"Ensure this field has no more than 15 characters."}, errs["phone"])
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	path := "/employees/" + f.emp.ID

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"owner", f.owner, http.StatusOK},
		{"admin", f.admin, http.StatusOK},
		{"other user", f.other, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := f.serve(t, http.MethodGet, path, "", tc.headers)
			assert.Equal(t, tc.want, code)
		})
	}

	t.Run("absent is 404 even for strangers", func(t *testing.T) {
		code, env := f.serve(t, http.MethodGet, "/employees/"+uuid.NewString(), "", f.other)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Employee not found", env.Message)
	})

	t.Run("malformed id is 404", func(t *testing.T) {
		code, _ := f.serve(t, http.MethodGet, "/employees/42", "", f.admin)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	path := "/employees/" + f.emp.ID

	code, env := f.serve(t, http.MethodPut, path, `{"address":"1 Main St"}`, f.owner)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee updated successfully", env.Message)
	data := env.Data.(map[string]any)
	assert.Equal(t, "1 Main St", data["address"])
	assert.Equal(t, "555", data["phone"])
	assert.Equal(t, "Sales", data["position"])

	code, env = f.serve(t, http.MethodPatch, path, `{"position":"Lead"}`, f.admin)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Lead", env.Data.(map[string]any)["position"])

	code, _ = f.serve(t, http.MethodPatch, path, `{"position":"CEO"}`, f.other)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = f.serve(t, http.MethodPut, path, `{"user":"`+f.free+`"}`, f.owner)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "user")

	code, _ = f.serve(t, http.MethodPut, "/employees/not-a-uuid", `{}`, f.admin)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteIsSoft(t *testing.T) {
	f := newFixture(t)
	path := "/employees/" + f.emp.ID

	code, _ := f.serve(t, http.MethodDelete, path, "", f.other)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.serve(t, http.MethodDelete, path, "", f.owner)
	require.Equal(t, http.StatusNoContent, code)

	code, _ = f.serve(t, http.MethodGet, path, "", f.admin)
	assert.Equal(t, http.StatusNotFound, code)

	require.Contains(t, f.repo.rows, f.emp.ID)
	assert.False(t, f.repo.rows[f.emp.ID].IsActive)

	code, _ = f.serve(t, http.MethodDelete, path, "", f.owner)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAssignedTasksRoute(t *testing.T) {
	f := newFixture(t)
	path := "/employees/" + f.emp.ID + "/tasks"

	code, _ := f.serve(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := f.serve(t, http.MethodGet, path, "", f.owner)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Tasks retrieved successfully", env.Message)
}
