// AngelaMos | 2026
// core_test.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Phone *string `json:"phone" validate:"omitempty,max=15"`
}

type signup struct {
	contact
	Username string  `json:"username" validate:"required,username"`
	Email    string  `json:"email"    validate:"omitempty,email"`
	Title    *string `json:"title"    validate:"omitnil,min=1"`
	Owner    string  `json:"owner"    validate:"required,uuid"`
	Due      string  `json:"due"      validate:"omitempty,datetime=2006-01-02"`
	Status   string  `json:"status"   validate:"omitempty,oneof=todo done"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()
	long := strings.Repeat("9", 16)
	blank := ""

	fields := ValidateStruct(v, signup{
		contact:  contact{Phone: &long},
		Username: "no spaces allowed",
		Email:    "nope",
		Title:    &blank,
		Owner:    "42",
		Due:      "01/02/2026",
		Status:   "later",
	})

	assert.Equal(t, FieldErrors{
		"phone": {"Ensure this field has no more than 15 characters."},
		"username": {"Enter a valid username. This value may contain only letters, " +
			"numbers, and @/./+/-/_ characters."},
		"email":  {"Enter a valid email address."},
		"title":  {"This field may not be blank."},
		"owner":  {"Must be a valid UUID."},
		"due":    {"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
		"status": {`"later" is not a valid choice.`},
	}, fields)

	ok := ValidateStruct(v, signup{Username: "ana.b", Owner: uuid.NewString()})
	assert.True(t, ok.Empty())
	assert.NoError(t, ok.Err())
}

func TestFieldErrorsErr(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("user", "first")
	fields.Merge(FieldErrors{"user": {"second"}, "phone": {"third"}})

	appErr, ok := AsAppError(fields.Err())
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid data", appErr.Message)
	assert.Equal(t, []string{"first", "second"}, appErr.Details.(FieldErrors)["user"])
}

func TestJSONError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		detail  any
	}{
		{
			name:    "not found",
			err:     fmt.Errorf("load: %w", NotFoundError("Customer")),
			status:  http.StatusNotFound,
			message: "Customer not found",
			detail:  "Customer not found",
		},
		{
			name:    "forbidden default message",
			err:     ForbiddenError(""),
			status:  http.StatusForbidden,
			message: "You do not have permission to perform this action.",
			detail:  "You do not have permission to perform this action.",
		},
		{
			name:    "validation",
			err:     ValidationError(FieldErrors{"name": {"This field is required."}}),
			status:  http.StatusBadRequest,
			message: "Invalid data",
			detail:  map[string]any{"name": []any{"This field is required."}},
		},
		{
			name:    "unexpected",
			err:     errors.New("connection refused"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
			detail:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, tt.detail, env.Error)
			assert.Equal(t, tt.status, env.Status)
			assert.Nil(t, env.Data)
		})
	}
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "Products retrieved successfully", []string{})

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "Products retrieved successfully", raw["message"])
	assert.Equal(t, []any{}, raw["data"])
	assert.InDelta(t, 200, raw["status"], 0)
	assert.NotContains(t, raw, "error")
}

type order struct {
	contact
	Name  string   `json:"name"  validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Qty   int      `json:"qty"`
	Rush  bool     `json:"rush"`
}

func decodeBody(body string) (order, error) {
	var dst order
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return dst, DecodeJSON(req, &dst)
}

func TestDecodeJSON(t *testing.T) {
	t.Run("accepts one object", func(t *testing.T) {
		dst, err := decodeBody(`{"name":"Desk","price":12.5,"qty":2}` + "\n")
		require.NoError(t, err)
		assert.Equal(t, "Desk", dst.Name)
		assert.InDelta(t, 12.5, *dst.Price, 0)
		assert.Equal(t, 2, dst.Qty)
	})

	rejected := []struct {
		name string
		body string
	}{
		{"truncated", `{"name":`},
		{"empty", ``},
		{"trailing object", `{"name":"Desk","price":1} {"name":"Chair"}`},
		{"trailing brace", `{"name":"Desk","price":1}}`},
		{"not an object", `[1,2]`},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBody(tt.body)
			appErr, ok := AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
			assert.Equal(t, "Invalid request body", appErr.Message)
			assert.Nil(t, appErr.Details)
		})
	}
}

func TestDecodeJSONReportsEveryMismatchedField(t *testing.T) {
	_, err := decodeBody(`{"name":"","price":"abc","qty":1.5,"rush":"yes","phone":7}`)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid data", appErr.Message)

	assert.Equal(t, FieldErrors{
		"name":  {"This field is required."},
		"price": {"A valid number is required."},
		"qty":   {"A valid integer is required."},
		"rush":  {"Must be a valid boolean."},
		"phone": {"Not a valid string."},
	}, appErr.Details)
}

type loginCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registration struct {
	User loginCredentials `json:"user"`
}

func TestDecodeJSONNestedMismatch(t *testing.T) {
	var dst registration
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"user":{"password":12345678}}`))

	appErr, ok := AsAppError(DecodeJSON(req, &dst))
	require.True(t, ok)
	assert.Equal(t, FieldErrors{
		"user.password": {"Not a valid string."},
		"user.username": {"This field is required."},
	}, appErr.Details)
}

func TestUUIDParam(t *testing.T) {
	id := uuid.NewString()
	var got string
	var valid bool

	r := chi.NewRouter()
	r.Get("/items/{itemID}", func(_ http.ResponseWriter, req *http.Request) {
		got, valid = UUIDParam(req, "itemID")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	assert.True(t, valid)
	assert.Equal(t, id, got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/12", nil))
	assert.False(t, valid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, err := VerifyPassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestRehashOnOutdatedParams(t *testing.T) {
	weak := Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
	old, err := hashWithParams("s3cret-pass", weak)
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("s3cret-pass", old)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, newHash)
	assert.False(t, needsRehash(newHash))

	ok, newHash, err = VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestRefreshTokenHelpers(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
}

func TestTokenDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	d := NewTokenDenylist(client)

	require.NoError(t, d.Deny(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, d.Deny(ctx, "jti-stale", time.Now().Add(-time.Minute)))

	denied, err := d.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, denied)

	denied, err = d.IsDenied(ctx, "jti-stale")
	require.NoError(t, err)
	assert.False(t, denied)

	mr.FastForward(2 * time.Minute)
	denied, err = d.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, denied)
}
