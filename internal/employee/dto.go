// AngelaMos | 2026
// dto.go

package employee

import (
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

type CreateEmployeeRequest struct {
	User string `json:"user" validate:"required,uuid"`
	profile.Fields
	Position *string `json:"position" validate:"omitempty,max=100"`
}

type UpdateEmployeeRequest struct {
	User *string `json:"user" validate:"omitempty,uuid"`
	profile.Fields
	Position *string `json:"position" validate:"omitempty,max=100"`
}

type EmployeeResponse struct {
	profile.Response
	Position *string `json:"position"`
}

func ToEmployeeResponse(e *Employee) EmployeeResponse {
	return EmployeeResponse{
		Response: profile.NewResponse(&e.Profile),
		Position: e.Position,
	}
}

func ToEmployeeResponseList(employees []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out
}
