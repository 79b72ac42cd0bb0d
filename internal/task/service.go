// AngelaMos | 2026
// service.go

package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/employee"
	"github.com/carterperez-dev/templates/crm-backend/internal/permission"
)

// Assignees resolves the employee a task may be assigned to.
type Assignees interface {
	GetActiveByID(ctx context.Context, id string) (*employee.Employee, error)
}

type Service struct {
	repo      Repository
	employees Assignees
	policy    permission.Policy
	validator *validator.Validate
}

func NewService(repo Repository, employees Assignees) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		policy:    permission.TaskPolicy,
		validator: core.NewValidator(),
	}
}

// List returns every task for staff and only the caller's assignments for
// everyone else.
func (s *Service) List(
	ctx context.Context,
	id permission.Identity,
	params ListTasksParams,
) ([]Task, error) {
	if err := core.ValidateStruct(s.validator, params).Err(); err != nil {
		return nil, err
	}

	filter := ListFilter{Status: Status(params.Status)}
	if !permission.IsAdmin(id) {
		filter.AssigneeUserID = id.UserID
	}

	return s.repo.List(ctx, filter)
}

// ListForEmployee returns the tasks assigned to one employee, visible to
// that employee's identity and to staff.
func (s *Service) ListForEmployee(
	ctx context.Context,
	id permission.Identity,
	employeeID string,
	params ListTasksParams,
) ([]Task, error) {
	emp, err := s.employees.GetActiveByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Employee")
		}
		return nil, fmt.Errorf("employee store: %w", err)
	}

	err = permission.EmployeePolicy.AllowObject(ctx, id, permission.ActionRetrieve, emp.Owner())
	if err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, params).Err(); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ListFilter{
		AssignedTo: emp.ID,
		Status:     Status(params.Status),
	})
}

func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	fields := core.ValidateStruct(s.validator, req)

	var assignee *employee.Employee
	if _, bad := fields["assigned_to"]; !bad {
		emp, errs, err := s.resolveAssignee(ctx, req.AssignedTo)
		if err != nil {
			return nil, err
		}
		fields.Merge(errs)
		assignee = emp
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusTodo
	}

	t := &Task{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		AssignedTo:     assignee.ID,
		DueDate:        mustParseDate(req.DueDate),
		AssigneeUserID: assignee.UserID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, s.mapStoreError(err, t.AssignedTo)
	}

	return t, nil
}

func (s *Service) Get(
	ctx context.Context,
	id permission.Identity,
	taskID string,
) (*Task, error) {
	return s.load(ctx, id, permission.ActionRetrieve, taskID)
}

// Update applies the fields present in req. The caller must be staff or
// the assignee; the record is checked before the payload.
func (s *Service) Update(
	ctx context.Context,
	id permission.Identity,
	taskID string,
	req UpdateTaskRequest,
) (*Task, error) {
	t, err := s.load(ctx, id, permission.ActionUpdate, taskID)
	if err != nil {
		return nil, err
	}

	fields := core.ValidateStruct(s.validator, req)

	var assignee *employee.Employee
	if _, bad := fields["assigned_to"]; !bad && req.AssignedTo != nil &&
		*req.AssignedTo != t.AssignedTo {
		emp, errs, err := s.resolveAssignee(ctx, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		fields.Merge(errs)
		assignee = emp
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = Status(*req.Status)
	}
	if req.DueDate != nil {
		t.DueDate = mustParseDate(*req.DueDate)
	}
	if assignee != nil {
		t.AssignedTo = assignee.ID
		t.AssigneeUserID = assignee.UserID
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.mapStoreError(err, t.AssignedTo)
	}

	return t, nil
}

// Delete removes the task. Only staff reach this through the route gate.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	if err := s.repo.Delete(ctx, taskID); err != nil {
		return s.mapStoreError(err, "")
	}
	return nil
}

func (s *Service) load(
	ctx context.Context,
	id permission.Identity,
	action permission.Action,
	taskID string,
) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.mapStoreError(err, "")
	}

	if err := s.policy.AllowObject(ctx, id, action, t.Owner()); err != nil {
		return nil, err
	}

	return t, nil
}

// resolveAssignee loads an active employee, reporting a missing or
// inactive one as a field error rather than a failure.
func (s *Service) resolveAssignee(
	ctx context.Context,
	employeeID string,
) (*employee.Employee, core.FieldErrors, error) {
	emp, err := s.employees.GetActiveByID(ctx, employeeID)
	if errors.Is(err, core.ErrNotFound) {
		fields := core.FieldErrors{}
		fields.Add("assigned_to", invalidAssigneeMessage(employeeID))
		return nil, fields, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("employee store: %w", err)
	}
	return emp, core.FieldErrors{}, nil
}

func (s *Service) mapStoreError(err error, assignedTo string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("Task")
	case errors.Is(err, ErrUnknownAssignee):
		fields := core.FieldErrors{}
		fields.Add("assigned_to", invalidAssigneeMessage(assignedTo))
		return fields.Err()
	default:
		return fmt.Errorf("task store: %w", err)
	}
}

func invalidAssigneeMessage(employeeID string) string {
	return fmt.Sprintf(`Invalid pk "%s" - object does not exist.`, employeeID)
}

// mustParseDate is only called on values the validator accepted.
func mustParseDate(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(fmt.Sprintf("task: unvalidated date %q", s))
	}
	return d
}
