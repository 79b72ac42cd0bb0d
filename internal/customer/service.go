// AngelaMos | 2026
// service.go

package customer

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
		policy:    permission.CustomerPolicy,
		validator: core.NewValidator(),
	}
}

// List returns every active customer. Callers are gated to staff by route.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateCustomerRequest,
) (*Customer, error) {
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

	c := &Customer{Profile: profile.New(uuid.New().String(), req.User, req.Fields)}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			dup := core.FieldErrors{}
			dup.Add("user", profile.DuplicateOwnerMessage(Kind))
			return nil, dup.Err()
		}
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(
	ctx context.Context,
	id permission.Identity,
	customerID string,
) (*Customer, error) {
	return s.load(ctx, id, permission.ActionRetrieve, customerID)
}

func (s *Service) Update(
	ctx context.Context,
	id permission.Identity,
	customerID string,
	req UpdateCustomerRequest,
) (*Customer, error) {
	c, err := s.load(ctx, id, permission.ActionUpdate, customerID)
	if err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)
	fields.Merge(profile.CheckImmutableUser(&c.Profile, req.User))
	if err := fields.Err(); err != nil {
		return nil, err
	}

	req.Fields.Apply(&c.Profile)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, s.mapNotFound(err)
	}

	return c, nil
}

// Delete deactivates the customer; the row is kept.
func (s *Service) Delete(
	ctx context.Context,
	id permission.Identity,
	customerID string,
) error {
	if _, err := s.load(ctx, id, permission.ActionDelete, customerID); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, customerID); err != nil {
		return s.mapNotFound(err)
	}

	return nil
}

// load fetches an active customer and applies the object rule. Absent
// records are reported before any permission decision.
func (s *Service) load(
	ctx context.Context,
	id permission.Identity,
	action permission.Action,
	customerID string,
) (*Customer, error) {
	c, err := s.repo.GetActiveByID(ctx, customerID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	if err := s.policy.AllowObject(ctx, id, action, c.Owner()); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("Customer")
	}
	return fmt.Errorf("customer store: %w", err)
}
