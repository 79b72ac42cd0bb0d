// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is the stored form of an issued refresh token. Only the
// SHA-256 of the token is kept; FamilyID links every rotation of one login.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

// TokenState is where a refresh token sits in its rotation lifecycle.
type TokenState int

const (
	TokenActive TokenState = iota
	TokenRotated
	TokenRevoked
	TokenExpired
)

// StateAt classifies the token at now. A rotated token is reported before
// revocation or expiry because presenting it again signals theft.
func (t *RefreshToken) StateAt(now time.Time) TokenState {
	switch {
	case t.IsUsed:
		return TokenRotated
	case t.RevokedAt != nil:
		return TokenRevoked
	case !now.Before(t.ExpiresAt):
		return TokenExpired
	default:
		return TokenActive
	}
}
