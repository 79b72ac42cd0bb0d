// AngelaMos | 2026
// dto.go

package customer

import (
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

type CreateCustomerRequest struct {
	User string `json:"user" validate:"required,uuid"`
	profile.Fields
}

type UpdateCustomerRequest struct {
	User *string `json:"user" validate:"omitempty,uuid"`
	profile.Fields
}

type CustomerResponse struct {
	profile.Response
}

func ToCustomerResponse(c *Customer) CustomerResponse {
	return CustomerResponse{Response: profile.NewResponse(&c.Profile)}
}

func ToCustomerResponseList(customers []Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}
