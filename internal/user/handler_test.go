// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

type memRepo struct {
	mu    sync.Mutex
	users []User
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return core.ErrDuplicateKey
		}
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *memRepo) find(match func(User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u User) bool { return u.ID == id })
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	return m.find(func(u User) bool { return u.Username == username })
}

func (m *memRepo) update(id string, fn func(*User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			fn(&m.users[i])
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return m.update(id, func(u *User) { u.PasswordHash = hash })
}

func (m *memRepo) UpdateStaff(_ context.Context, id string, isStaff bool) error {
	return m.update(id, func(u *User) {
		u.IsStaff = isStaff
		u.TokenVersion++
	})
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id string) error {
	return m.update(id, func(u *User) { u.TokenVersion++ })
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memRepo) List(_ context.Context, params ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []User{}
	for _, u := range m.users {
		if params.Search != "" && !strings.Contains(u.Username, params.Search) {
			continue
		}
		if params.IsStaff != nil && u.IsStaff != *params.IsStaff {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.GetByID(ctx, id)
	return err == nil, nil
}

type fixture struct {
	router http.Handler
	repo   *memRepo
	admin  *User
	alice  *User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &memRepo{}
	svc := NewService(repo)

	admin, err := svc.CreateSuperuser(context.Background(), "root", "root@example.com", "s3cret-pass")
	require.NoError(t, err)

	alice := &User{ID: uuid.NewString(), Username: "alice", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), alice))

	actAs := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), admin.ID, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(svc).RegisterAdminRoutes(r, actAs, passthrough)

	return &fixture{router: r, repo: repo, admin: admin, alice: alice}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	if rec.Code == http.StatusNoContent {
		return rec.Code, nil
	}

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestCreateSuperuserHashesPassword(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.admin.IsStaff)
	assert.NotEqual(t, "s3cret-pass", f.admin.PasswordHash)

	ok, err := core.VerifyPassword("s3cret-pass", f.admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewService(f.repo).CreateSuperuser(context.Background(), "root", "", "another-pass")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Users retrieved successfully", env["message"])
	data := env["data"].(map[string]any)
	assert.InDelta(t, 2, data["total"], 0)
	assert.InDelta(t, 20, data["page_size"], 0)

	code, env = f.do(t, http.MethodGet, "/users?is_staff=false&page_size=500", nil)
	require.Equal(t, http.StatusOK, code)
	data = env["data"].(map[string]any)
	users := data["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].(map[string]any)["username"])
	assert.InDelta(t, 100, data["page_size"], 0)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodGet, "/users/"+f.alice.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, f.alice.ID, env["data"].(map[string]any)["id"])

	code, env = f.do(t, http.MethodGet, "/users/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", env["message"])

	code, _ = f.do(t, http.MethodGet, "/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateStaff(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPut, "/users/"+f.alice.ID+"/staff", map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env["error"], "is_staff")

	code, env = f.do(t, http.MethodPut, "/users/"+f.alice.ID+"/staff", map[string]any{"is_staff": "yes"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]any{"is_staff": []any{"Must be a valid boolean."}}, env["error"])

	code, env = f.do(t, http.MethodPut, "/users/"+f.alice.ID+"/staff", map[string]any{"is_staff": true})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env["data"].(map[string]any)["is_staff"])

	stored, err := f.repo.GetByID(context.Background(), f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TokenVersion)

	code, env = f.do(t, http.MethodPut, "/users/"+f.admin.ID+"/staff", map[string]any{"is_staff": false})
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You cannot perform this action on this user.", env["message"])
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodDelete, "/users/"+f.admin.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.do(t, http.MethodDelete, "/users/"+f.alice.ID, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, _ = f.do(t, http.MethodDelete, "/users/"+f.alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
