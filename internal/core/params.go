// AngelaMos | 2026
// params.go

package core

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UUIDParam returns the named path parameter when it is a well-formed UUID.
// Callers answer 404 otherwise, since no record can carry a malformed id.
func UUIDParam(r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
