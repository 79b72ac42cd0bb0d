// AngelaMos | 2026
// entity.go

package customer

import (
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

const Kind = "customer"

type Customer struct {
	profile.Profile
}
