// AngelaMos | 2026
// repository.go

package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetActiveByID(ctx context.Context, id string) (*Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	Deactivate(ctx context.Context, id string) error
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	query, args, err := core.SQL.
		Insert("employees").
		Columns("id", "user_id", "phone", "address", "position", "is_active").
		Values(e.ID, e.UserID, e.Phone, e.Address, e.Position, e.IsActive).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create employee: %w", err)
	}

	err = r.db.GetContext(ctx, &e.CreatedAt, query, args...)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create employee: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create employee: %w", err)
	}

	return nil
}

func (r *repository) GetActiveByID(
	ctx context.Context,
	id string,
) (*Employee, error) {
	query, args, err := core.SQL.
		Select(columns...).
		From("employees").
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get employee: %w", err)
	}

	var e Employee
	err = r.db.GetContext(ctx, &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get employee: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}

	return &e, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Employee, error) {
	query, args, err := core.SQL.
		Select(columns...).
		From("employees").
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list employees: %w", err)
	}

	employees := []Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	return employees, nil
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	query, args, err := core.SQL.
		Update("employees").
		SetMap(map[string]any{
			"phone":     e.Phone,
			"address":   e.Address,
			"position":  e.Position,
			"is_active": e.IsActive,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update employee: %w", err)
	}

	return core.ExecOne(ctx, r.db, "update employee", query, args...)
}

// Deactivate is the employee delete. Assigned tasks are left in place.
func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE employees SET is_active = false WHERE id = $1 AND is_active`

	return core.ExecOne(ctx, r.db, "deactivate employee", query, id)
}

func (r *repository) ExistsForUser(
	ctx context.Context,
	userID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE user_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check employee for user: %w", err)
	}

	return exists, nil
}
