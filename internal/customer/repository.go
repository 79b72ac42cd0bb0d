// AngelaMos | 2026
// repository.go

package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetActiveByID(ctx context.Context, id string) (*Customer, error)
	ListActive(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Deactivate(ctx context.Context, id string) error
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	query, args, err := core.SQL.
		Insert("customers").
		Columns("id", "user_id", "phone", "address", "is_active").
		Values(c.ID, c.UserID, c.Phone, c.Address, c.IsActive).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create customer: %w", err)
	}

	err = r.db.GetContext(ctx, &c.CreatedAt, query, args...)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create customer: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create customer: %w", err)
	}

	return nil
}

func (r *repository) GetActiveByID(
	ctx context.Context,
	id string,
) (*Customer, error) {
	query, args, err := core.SQL.
		Select(profile.Columns...).
		From("customers").
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get customer: %w", err)
	}

	var c Customer
	err = r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get customer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return &c, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Customer, error) {
	query, args, err := core.SQL.
		Select(profile.Columns...).
		From("customers").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list customers: %w", err)
	}

	customers := []Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	return customers, nil
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	query, args, err := core.SQL.
		Update("customers").
		Set("phone", c.Phone).
		Set("address", c.Address).
		Set("is_active", c.IsActive).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update customer: %w", err)
	}

	return core.ExecOne(ctx, r.db, "update customer", query, args...)
}

// Deactivate is the customer delete: the row stays, flagged inactive.
func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE customers SET is_active = false WHERE id = $1 AND is_active`

	return core.ExecOne(ctx, r.db, "deactivate customer", query, id)
}

func (r *repository) ExistsForUser(
	ctx context.Context,
	userID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE user_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check customer for user: %w", err)
	}

	return exists, nil
}
