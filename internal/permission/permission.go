// AngelaMos | 2026
// permission.go

// Package permission decides whether the acting identity may perform an
// operation. Predicates are pure; a Policy maps each resource action to the
// predicates that guard it before and after the record is loaded.
package permission

import (
	"context"
	"net/http"

	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

// Identity is the authenticated caller. The zero value is anonymous.
type Identity struct {
	UserID  string
	IsStaff bool
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func FromContext(ctx context.Context) Identity {
	return Identity{
		UserID:  middleware.GetUserID(ctx),
		IsStaff: middleware.IsStaff(ctx),
	}
}

func IsAdmin(id Identity) bool {
	return id.Authenticated() && id.IsStaff
}

// IsOwnerOrAdmin compares the caller against the record's owning identity.
func IsOwnerOrAdmin(id Identity, owner string) bool {
	if IsAdmin(id) {
		return true
	}
	return id.Authenticated() && owner != "" && id.UserID == owner
}

// IsAssignedOrAdmin compares the caller against the identity owning the
// employee a task is assigned to.
func IsAssignedOrAdmin(id Identity, assigneeOwner string) bool {
	return IsOwnerOrAdmin(id, assigneeOwner)
}

// ReadOpenWriteAdmin admits safe methods for everyone and mutations for
// staff only.
func ReadOpenWriteAdmin(id Identity, method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return IsAdmin(id)
	}
}

func Authenticated(id Identity, _ string) bool {
	return id.Authenticated()
}

func Admin(id Identity, _ string) bool {
	return IsAdmin(id)
}
