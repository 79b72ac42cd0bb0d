// AngelaMos | 2026
// entity.go

package product

import (
	"time"
)

type Product struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
