// AngelaMos | 2026
// entity.go

package task

import (
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work assigned to one employee. AssigneeUserID is the
// identity owning that employee profile, loaded alongside the row.
type Task struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Status         Status    `db:"status"`
	AssignedTo     string    `db:"assigned_to"`
	DueDate        time.Time `db:"due_date"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AssigneeUserID string    `db:"assignee_user_id"`
}

func (t *Task) Owner() string {
	return t.AssigneeUserID
}
