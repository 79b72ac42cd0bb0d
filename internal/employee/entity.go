// AngelaMos | 2026
// entity.go

package employee

import (
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

const Kind = "employee"

type Employee struct {
	profile.Profile
	Position *string `db:"position"`
}

var columns = append(append([]string{}, profile.Columns...), "position")
