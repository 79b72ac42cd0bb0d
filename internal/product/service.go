// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

// Service has no object-level rules: the route gate already admits reads
// for everyone and writes for staff.
type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateProductRequest,
) (*Product, error) {
	if err := core.ValidateStruct(s.validator, req).Err(); err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("product store: %w", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	productID string,
	req UpdateProductRequest,
) (*Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, req).Err(); err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapNotFound(err)
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("Product")
	}
	return fmt.Errorf("product store: %w", err)
}
