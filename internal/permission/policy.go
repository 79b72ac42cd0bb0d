// AngelaMos | 2026
// policy.go

package permission

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type Action string

const (
	ActionList     Action = "list"
	ActionCreate   Action = "create"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Rule guards one action. Route runs before the store is touched; Object,
// when set, runs once the record has been loaded.
type Rule struct {
	Route   func(id Identity, method string) bool
	Object  func(id Identity, owner string) bool
	Message string
}

type Policy struct {
	Resource string
	Rules    map[Action]Rule
}

var CustomerPolicy = Policy{
	Resource: "customer",
	Rules: map[Action]Rule{
		ActionList:     {Route: Admin},
		ActionCreate:   {Route: Admin},
		ActionRetrieve: {Route: Authenticated, Object: IsOwnerOrAdmin},
		ActionUpdate:   {Route: Authenticated, Object: IsOwnerOrAdmin},
		ActionDelete:   {Route: Authenticated, Object: IsOwnerOrAdmin},
	},
}

var EmployeePolicy = Policy{
	Resource: "employee",
	Rules: map[Action]Rule{
		ActionList:     {Route: Admin},
		ActionCreate:   {Route: Admin},
		ActionRetrieve: {Route: Authenticated, Object: IsOwnerOrAdmin},
		ActionUpdate:   {Route: Authenticated, Object: IsOwnerOrAdmin},
		ActionDelete:   {Route: Authenticated, Object: IsOwnerOrAdmin},
	},
}

var ProductPolicy = Policy{
	Resource: "product",
	Rules: map[Action]Rule{
		ActionList:     {Route: ReadOpenWriteAdmin},
		ActionCreate:   {Route: ReadOpenWriteAdmin},
		ActionRetrieve: {Route: ReadOpenWriteAdmin},
		ActionUpdate:   {Route: ReadOpenWriteAdmin},
		ActionDelete:   {Route: ReadOpenWriteAdmin},
	},
}

// TaskPolicy lets any authenticated caller list tasks; the service narrows
// the scope to the caller's assignments for non-staff.
var TaskPolicy = Policy{
	Resource: "task",
	Rules: map[Action]Rule{
		ActionList: {Route: Authenticated},
		ActionCreate: {
			Route:   Admin,
			Message: "You do not have permission to create a task",
		},
		ActionRetrieve: {Route: Authenticated, Object: IsAssignedOrAdmin},
		ActionUpdate:   {Route: Authenticated, Object: IsAssignedOrAdmin},
		ActionDelete: {
			Route:   Admin,
			Message: "You do not have permission to delete a task",
		},
	},
}

func (p Policy) rule(action Action) Rule {
	r, ok := p.Rules[action]
	if !ok {
		panic(fmt.Sprintf("permission: %s policy has no rule for %s", p.Resource, action))
	}
	return r
}

// AllowRoute evaluates the route-level predicate. Anonymous callers that
// fail it get ErrUnauthorized, authenticated ones ErrForbidden.
func (p Policy) AllowRoute(
	ctx context.Context,
	id Identity,
	action Action,
	method string,
) error {
	r := p.rule(action)
	if r.Route == nil || r.Route(id, method) {
		return nil
	}

	if !id.Authenticated() {
		return core.UnauthorizedError("")
	}

	return p.deny(ctx, id, action, r.Message)
}

// AllowObject evaluates the object-level predicate against the record's
// owning identity. Callers must have confirmed the record exists.
func (p Policy) AllowObject(
	ctx context.Context,
	id Identity,
	action Action,
	owner string,
) error {
	r := p.rule(action)
	if r.Object == nil || r.Object(id, owner) {
		return nil
	}

	return p.deny(ctx, id, action, r.Message)
}

// HasObjectRule reports whether the action is also checked per record.
func (p Policy) HasObjectRule(action Action) bool {
	return p.rule(action).Object != nil
}

func (p Policy) deny(
	ctx context.Context,
	id Identity,
	action Action,
	message string,
) error {
	slog.DebugContext(ctx, "permission denied",
		"resource", p.Resource,
		"action", string(action),
		"user_id", id.UserID,
		"is_staff", id.IsStaff,
	)
	core.AddSpanEvent(ctx, "permission.denied",
		attribute.String("resource", p.Resource),
		attribute.String("action", string(action)),
	)

	return core.ForbiddenError(message)
}

// Gate enforces the route-level rule as chi middleware.
func (p Policy) Gate(action Action) func(http.Handler) http.Handler {
	p.rule(action)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if err := p.AllowRoute(r.Context(), id, action, r.Method); err != nil {
				core.JSONError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a whole route group to staff.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if !id.Authenticated() {
			core.Unauthorized(w, "")
			return
		}
		if !IsAdmin(id) {
			core.Forbidden(w, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
