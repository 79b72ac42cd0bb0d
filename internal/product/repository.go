// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, search string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

var columns = []string{"id", "name", "price", "description", "created_at", "updated_at"}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query, args, err := core.SQL.
		Insert("products").
		Columns("id", "name", "price", "description").
		Values(p.ID, p.Name, p.Price, p.Description).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create product: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query, args, err := core.SQL.
		Select(columns...).
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}

	var p Product
	err = r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// List returns products in creation order, optionally narrowed by a
// case-insensitive match on name or description.
func (r *repository) List(ctx context.Context, search string) ([]Product, error) {
	builder := core.SQL.
		Select(columns...).
		From("products").
		OrderBy("created_at ASC", "id ASC")

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query, args, err := core.SQL.
		Update("products").
		Set("name", p.Name).
		Set("price", p.Price).
		Set("description", p.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}

	err = r.db.GetContext(ctx, &p.UpdatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

// Delete removes the row permanently.
func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete product", `DELETE FROM products WHERE id = $1`, id)
}
