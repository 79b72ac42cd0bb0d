// AngelaMos | 2026
// repository.go

package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

// ErrUnknownAssignee is returned when assigned_to does not reference an
// employee row.
var ErrUnknownAssignee = errors.New("unknown assignee")

// ListFilter narrows a task listing. Empty fields do not filter.
type ListFilter struct {
	AssigneeUserID string
	AssignedTo     string
	Status         Status
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func selectTasks() sq.SelectBuilder {
	return core.SQL.
		Select(
			"t.id", "t.title", "t.description", "t.status", "t.assigned_to",
			"t.due_date", "t.created_at", "t.updated_at",
			"e.user_id AS assignee_user_id",
		).
		From("tasks t").
		Join("employees e ON e.id = t.assigned_to")
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	query, args, err := core.SQL.
		Insert("tasks").
		Columns("id", "title", "description", "status", "assigned_to", "due_date").
		Values(t.ID, t.Title, t.Description, string(t.Status), t.AssignedTo,
			t.DueDate.Format(time.DateOnly)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create task: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create task: %w", ErrUnknownAssignee)
		}
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Task, error) {
	query, args, err := selectTasks().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get task: %w", err)
	}

	var t Task
	err = r.db.GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &t, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Task, error) {
	where := sq.Eq{}
	if filter.AssigneeUserID != "" {
		where["e.user_id"] = filter.AssigneeUserID
	}
	if filter.AssignedTo != "" {
		where["t.assigned_to"] = filter.AssignedTo
	}
	if filter.Status != "" {
		where["t.status"] = string(filter.Status)
	}

	query, args, err := selectTasks().
		Where(where).
		OrderBy("t.created_at ASC", "t.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks: %w", err)
	}

	tasks := []Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	query, args, err := core.SQL.
		Update("tasks").
		SetMap(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"status":      string(t.Status),
			"assigned_to": t.AssignedTo,
			"due_date":    t.DueDate.Format(time.DateOnly),
			"updated_at":  sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task: %w", err)
	}

	err = r.db.GetContext(ctx, &t.UpdatedAt, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("update task: %w", core.ErrNotFound)
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("update task: %w", ErrUnknownAssignee)
	case err != nil:
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

// Delete removes the row permanently.
func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete task", `DELETE FROM tasks WHERE id = $1`, id)
}
