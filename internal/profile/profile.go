// AngelaMos | 2026
// profile.go

// Package profile holds the contact record shared by customers and
// employees. Each kind lives in its own table; this package gives them one
// set of columns, field rules and response shape.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type Profile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Owner is the identity the profile belongs to.
func (p *Profile) Owner() string {
	return p.UserID
}

// Columns lists the shared columns in scan order.
var Columns = []string{"id", "user_id", "phone", "address", "is_active", "created_at"}

// Fields are the writable shared fields. A nil pointer leaves the stored
// value untouched.
type Fields struct {
	Phone    *string `json:"phone"     validate:"omitempty,max=15"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

func (f Fields) Apply(p *Profile) {
	if f.Phone != nil {
		p.Phone = f.Phone
	}
	if f.Address != nil {
		p.Address = f.Address
	}
	if f.IsActive != nil {
		p.IsActive = *f.IsActive
	}
}

// New builds an active profile for userID with the given fields applied.
func New(id, userID string, f Fields) Profile {
	p := Profile{
		ID:       id,
		UserID:   userID,
		IsActive: true,
	}
	f.Apply(&p)
	return p
}

// UserLookup answers whether an identity exists.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CheckOwner validates the user reference of a new profile: the identity
// must exist and must not already own a profile of this kind.
func CheckOwner(
	ctx context.Context,
	users UserLookup,
	taken func(ctx context.Context, userID string) (bool, error),
	kind, userID string,
) (core.FieldErrors, error) {
	fields := core.FieldErrors{}

	exists, err := users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check %s owner: %w", kind, err)
	}
	if !exists {
		fields.Add("user", fmt.Sprintf(`Invalid pk "%s" - object does not exist.`, userID))
		return fields, nil
	}

	used, err := taken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check %s owner: %w", kind, err)
	}
	if used {
		fields.Add("user", DuplicateOwnerMessage(kind))
	}

	return fields, nil
}

func DuplicateOwnerMessage(kind string) string {
	return kind + " with this user already exists."
}

// CheckImmutableUser rejects an update that tries to move the profile to a
// different identity.
func CheckImmutableUser(p *Profile, requested *string) core.FieldErrors {
	fields := core.FieldErrors{}
	if requested != nil && *requested != p.UserID {
		fields.Add("user", "This field cannot be changed once set.")
	}
	return fields
}

type Response struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(p *Profile) Response {
	return Response{
		ID:        p.ID,
		User:      p.UserID,
		Phone:     p.Phone,
		Address:   p.Address,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}
