// AngelaMos | 2026
// handler_test.go

package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

type memRepo struct {
	order []string
	rows  map[string]Product
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]Product{}}
}

func (m *memRepo) Create(_ context.Context, p *Product) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = *p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) List(_ context.Context, search string) ([]Product, error) {
	out := []Product{}
	for _, id := range m.order {
		p, ok := m.rows[id]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *Product) error {
	if _, ok := m.rows[p.ID]; !ok {
		return core.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// optionalIdentity mirrors middleware.OptionalAuth using plain headers.
func optionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-User"); id != "" {
			staff := r.Header.Get("X-Staff") == "1"
			r = r.WithContext(middleware.WithIdentity(r.Context(), id, staff))
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(repo Repository) chi.Router {
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, optionalIdentity)
	return r
}

func serve(
	t *testing.T,
	router http.Handler,
	method, path, body string,
	headers map[string]string,
) (int, core.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env core.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

var (
	admin    = map[string]string{"X-User": uuid.NewString(), "X-Staff": "1"}
	customer = map[string]string{"X-User": uuid.NewString()}
)

func TestAnyoneCanRead(t *testing.T) {
	repo := newMemRepo()
	desc := "Fast"
	require.NoError(t, repo.Create(context.Background(), &Product{
		ID: uuid.NewString(), Name: "Laptop", Price: 999.5, Description: &desc,
	}))
	router := newRouter(repo)

	for _, headers := range []map[string]string{nil, customer, admin} {
		code, env := serve(t, router, http.MethodGet, "/products", "", headers)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Products retrieved successfully", env.Message)
		assert.Len(t, env.Data, 1)
	}
}

func TestWritesRequireAdmin(t *testing.T) {
	router := newRouter(newMemRepo())
	body := `{"name":"Phone","price":10}`

	code, _ := serve(t, router, http.MethodPost, "/products", body, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = serve(t, router, http.MethodPost, "/products", body, customer)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := serve(t, router, http.MethodPost, "/products", body, admin)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Phone", env.Data.(map[string]any)["name"])
}

func TestCreateValidation(t *testing.T) {
	router := newRouter(newMemRepo())

	code, env := serve(t, router, http.MethodPost, "/products",
		`{"name":"`+strings.Repeat("n", 101)+`","price":-1}`, admin)
	require.Equal(t, http.StatusBadRequest, code)

	errs := env.Error.(map[string]any)
	assert.Equal(t, []any{"Ensure this field has no more than 100 characters."}, errs["name"])
	assert.Equal(t, []any{"Ensure this value is greater than or equal to 0."}, errs["price"])

	code, env = serve(t, router, http.MethodPost, "/products", `{"name":"Free"}`, admin)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"This field is required."}, env.Error.(map[string]any)["price"])

	code, env = serve(t, router, http.MethodPost, "/products", `{"name":"","price":"abc"}`, admin)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid data", env.Message)
	errs = env.Error.(map[string]any)
	assert.Equal(t, []any{"This field is required."}, errs["name"])
	assert.Equal(t, []any{"A valid number is required."}, errs["price"])

	code, env = serve(t, router, http.MethodPost, "/products", `{"name":"Free","price":0} {}`, admin)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", env.Error)

	code, _ = serve(t, router, http.MethodPost, "/products", `{"name":"Free","price":0}`, admin)
	assert.Equal(t, http.StatusCreated, code)
}

func TestUpdateAndHardDelete(t *testing.T) {
	repo := newMemRepo()
	p := &Product{ID: uuid.NewString(), Name: "Desk", Price: 120}
	require.NoError(t, repo.Create(context.Background(), p))
	router := newRouter(repo)
	path := "/products/" + p.ID

	code, env := serve(t, router, http.MethodPut, path, `{"price":99}`, admin)
	require.Equal(t, http.StatusOK, code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "Desk", data["name"])
	assert.InDelta(t, 99.0, data["price"], 0.001)

	code, env = serve(t, router, http.MethodPatch, path, `{"price":"cheap","name":""}`, admin)
	require.Equal(t, http.StatusBadRequest, code)
	errs := env.Error.(map[string]any)
	assert.Equal(t, []any{"A valid number is required."}, errs["price"])
	assert.Equal(t, []any{"This field may not be blank."}, errs["name"])

	code, _ = serve(t, router, http.MethodDelete, path, "", customer)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = serve(t, router, http.MethodDelete, path, "", admin)
	require.Equal(t, http.StatusNoContent, code)
	assert.NotContains(t, repo.rows, p.ID)

	code, env = serve(t, router, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", env.Message)

	code, _ = serve(t, router, http.MethodDelete, path, "", admin)
	assert.Equal(t, http.StatusNotFound, code)
}
