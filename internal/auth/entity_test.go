// AngelaMos | 2026
// entity_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenStateAt(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token RefreshToken
		want  TokenState
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Hour)}, TokenActive},
		{"expired", RefreshToken{ExpiresAt: now}, TokenExpired},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &earlier}, TokenRevoked},
		{"rotated wins over revoked", RefreshToken{IsUsed: true, RevokedAt: &earlier}, TokenRotated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.StateAt(now))
		})
	}
}
