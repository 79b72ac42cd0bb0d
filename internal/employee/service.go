// AngelaMos | 2026
// service.go

package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/permission"
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

type Service struct {
	repo      Repository
	users     profile.UserLookup
	policy    permission.Policy
	validator *validator.Validate
}

func NewService(repo Repository, users profile.UserLookup) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		policy:    permission.EmployeePolicy,
		validator: core.NewValidator(),
	}
}

// List returns every active employee. Callers are gated to staff by route.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (*Employee, error) {
	fields := core.ValidateStruct(s.validator, req)

	if _, bad := fields["user"]; !bad {
		ownerErrs, err := profile.CheckOwner(ctx, s.users, s.repo.ExistsForUser, Kind, req.User)
		if err != nil {
			return nil, err
		}
		fields.Merge(ownerErrs)
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	e := &Employee{
		Profile:  profile.New(uuid.New().String(), req.User, req.Fields),
		Position: req.Position,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			dup := core.FieldErrors{}
			dup.Add("user", profile.DuplicateOwnerMessage(Kind))
			return nil, dup.Err()
		}
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(
	ctx context.Context,
	id permission.Identity,
	employeeID string,
) (*Employee, error) {
	return s.load(ctx, id, permission.ActionRetrieve, employeeID)
}

func (s *Service) Update(
	ctx context.Context,
	id permission.Identity,
	employeeID string,
	req UpdateEmployeeRequest,
) (*Employee, error) {
	e, err := s.load(ctx, id, permission.ActionUpdate, employeeID)
	if err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	fields.Merge(profile.CheckImmutableUser(&e.Profile, req.User))
	if err := fields.Err(); err != nil {
		return nil, err
	}

	req.Fields.Apply(&e.Profile)
	if req.Position != nil {
		e.Position = req.Position
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.mapNotFound(err)
	}

	return e, nil
}

// Delete deactivates the employee; the row and its tasks are kept.
func (s *Service) Delete(
	ctx context.Context,
	id permission.Identity,
	employeeID string,
) error {
	if _, err := s.load(ctx, id, permission.ActionDelete, employeeID); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, employeeID); err != nil {
		return s.mapNotFound(err)
	}

	return nil
}

// load fetches an active employee and applies the object rule. Absent
// records are reported before any permission decision.
func (s *Service) load(
	ctx context.Context,
	id permission.Identity,
	action permission.Action,
	employeeID string,
) (*Employee, error) {
	e, err := s.repo.GetActiveByID(ctx, employeeID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	if err := s.policy.AllowObject(ctx, id, action, e.Owner()); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("Employee")
	}
	return fmt.Errorf("employee store: %w", err)
}
