// AngelaMos | 2026
// dto.go

package task

import (
	"time"
)

type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"      validate:"omitempty,oneof=todo in_progress done"`
	AssignedTo  string `json:"assigned_to" validate:"required,uuid"`
	DueDate     string `json:"due_date"    validate:"required,datetime=2006-01-02"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Status      *string `json:"status"      validate:"omitnil,oneof=todo in_progress done"`
	AssignedTo  *string `json:"assigned_to" validate:"omitnil,uuid"`
	DueDate     *string `json:"due_date"    validate:"omitnil,datetime=2006-01-02"`
}

type ListTasksParams struct {
	Status string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AssignedTo  string    `json:"assigned_to"`
	DueDate     string    `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate.Format(time.DateOnly),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTaskResponseList(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = ToTaskResponse(&tasks[i])
	}
	return out
}
