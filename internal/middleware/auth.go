// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

// claimsKey holds the verified *AccessTokenClaims. Everything else the
// handlers read about the caller is derived from it.
const claimsKey contextKey = "access_claims"

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID       string
	IsStaff      bool
	TokenVersion int
	TokenID      string
	ExpiresAt    time.Time
}

// Authenticator rejects requests without a valid bearer token with a 401
// envelope.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, authFailure(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				claims, err := verifier.VerifyAccessToken(r.Context(), token)
				if err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// WithIdentity is used by tests and internal callers to act as a user.
func WithIdentity(ctx context.Context, userID string, isStaff bool) context.Context {
	return withClaims(ctx, &AccessTokenClaims{UserID: userID, IsStaff: isStaff})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authFailure maps verifier errors onto the 401 messages clients see.
func authFailure(err error) error {
	if core.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	default:
		return core.TokenInvalidError()
	}
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey).(*AccessTokenClaims)
	return claims
}

func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func IsStaff(ctx context.Context) bool {
	claims := GetClaims(ctx)
	return claims != nil && claims.IsStaff
}
