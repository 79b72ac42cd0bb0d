// AngelaMos | 2026
// repository.go

package user

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
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStaff(ctx context.Context, id string, isStaff bool) error
	IncrementTokenVersion(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, password_hash, is_staff,
	token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, is_staff)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, token_version`

	row := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
	)
	err := row.Scan(&user.CreatedAt, &user.UpdatedAt, &user.TokenVersion)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "update password", query, id, passwordHash)
}

func (r *repository) UpdateStaff(
	ctx context.Context,
	id string,
	isStaff bool,
) error {
	query := `
		UPDATE users
		SET is_staff = $2, token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "update staff flag", query, id, isStaff)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, r.db, "increment token version", query, id)
}

// Delete removes the identity; profiles and refresh tokens cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where := sq.And{}
	if params.Search != "" {
		pattern := "%" + escapeLike(params.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"email": pattern},
		})
	}
	if params.IsStaff != nil {
		where = append(where, sq.Eq{"is_staff": *params.IsStaff})
	}

	countQuery, countArgs, err := core.SQL.
		Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query, args, err := core.SQL.
		Select(userColumns).
		From("users").
		Where(where).
		OrderBy("created_at ASC").
		Limit(uint64(params.PageSize)).  //nolint:gosec // normalized above
		Offset(uint64(params.Offset())). //nolint:gosec // normalized above
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
