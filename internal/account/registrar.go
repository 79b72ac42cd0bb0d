// AngelaMos | 2026
// registrar.go

// Package account creates an identity and its role profile as one unit.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/crm-backend/internal/auth"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/customer"
	"github.com/carterperez-dev/templates/crm-backend/internal/employee"
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
	"github.com/carterperez-dev/templates/crm-backend/internal/user"
)

const duplicateUsernameMessage = "A user with that username already exists."

// Stores are the repositories a registration writes through, all bound to
// the same transaction.
type Stores struct {
	Users     user.Repository
	Customers customer.Repository
	Employees employee.Repository
}

// UnitOfWork runs fn atomically. An error from fn discards every write.
type UnitOfWork func(ctx context.Context, fn func(Stores) error) error

// SQLUnitOfWork binds the stores to a database transaction.
func SQLUnitOfWork(db *sqlx.DB) UnitOfWork {
	return func(ctx context.Context, fn func(Stores) error) error {
		return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
			return fn(Stores{
				Users:     user.NewRepository(tx),
				Customers: customer.NewRepository(tx),
				Employees: employee.NewRepository(tx),
			})
		})
	}
}

type Registrar struct {
	uow  UnitOfWork
	hash func(string) (string, error)
}

func NewRegistrar(uow UnitOfWork) *Registrar {
	return &Registrar{uow: uow, hash: core.HashPassword}
}

// Register creates the user and the profile for role. The payload is
// expected to be validated already; role must satisfy auth.ValidRole.
func (r *Registrar) Register(
	ctx context.Context,
	role string,
	req auth.RegisterRequest,
) (*auth.RegisterResponse, error) {
	if !auth.ValidRole(role) {
		return nil, core.BadRequestError("Invalid role")
	}

	hash, err := r.hash(req.User.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Username:     req.User.Username,
		Email:        req.User.Email,
		PasswordHash: hash,
	}

	fields := profile.Fields{
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	}

	var created any
	err = r.uow(ctx, func(s Stores) error {
		if err := s.Users.Create(ctx, u); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				dup := core.FieldErrors{}
				dup.Add("user.username", duplicateUsernameMessage)
				return dup.Err()
			}
			return err
		}

		switch role {
		case auth.RoleCustomer:
			c := &customer.Customer{
				Profile: profile.New(uuid.New().String(), u.ID, fields),
			}
			if err := s.Customers.Create(ctx, c); err != nil {
				return err
			}
			created = customer.ToCustomerResponse(c)
		case auth.RoleEmployee:
			e := &employee.Employee{
				Profile:  profile.New(uuid.New().String(), u.ID, fields),
				Position: req.Position,
			}
			if err := s.Employees.Create(ctx, e); err != nil {
				return err
			}
			created = employee.ToEmployeeResponse(e)
		}

		return nil
	})
	if err != nil {
		if !core.IsAppError(err) {
			slog.ErrorContext(ctx, "registration rolled back",
				"role", role,
				"username", req.User.Username,
				"error", err,
			)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered",
		"user_id", u.ID,
		"role", role,
	)

	return &auth.RegisterResponse{
		User: auth.RegisteredUser{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		},
		Profile: created,
	}, nil
}

var _ auth.Registrar = (*Registrar)(nil)
