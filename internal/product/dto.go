// AngelaMos | 2026
// dto.go

package product

import (
	"time"
)

type CreateProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Description *string  `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitnil,min=1,max=100"`
	Price       *float64 `json:"price"       validate:"omitnil,gte=0"`
	Description *string  `json:"description"`
}

func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Description != nil {
		p.Description = r.Description
	}
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
