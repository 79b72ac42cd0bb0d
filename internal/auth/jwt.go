// AngelaMos | 2026
// jwt.go

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/crm-backend/internal/config"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/middleware"
)

const (
	claimStaff        = "staff"
	claimTokenVersion = "token_version"
	claimType         = "type"
	tokenTypeAccess   = "access"
)

type JWTManager struct {
	keys   *signingKeys
	config config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	return NewJWTManagerFromPEM(privateKeyPEM, cfg)
}

// NewJWTManagerFromPEM builds a manager from an ES256 private key in PEM form.
func NewJWTManagerFromPEM(
	privateKeyPEM []byte,
	cfg config.JWTConfig,
) (*JWTManager, error) {
	keys, err := loadSigningKeys(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &JWTManager{keys: keys, config: cfg}, nil
}

type AccessTokenClaims struct {
	UserID       string `json:"sub"`
	IsStaff      bool   `json:"staff"`
	TokenVersion int    `json:"token_version"`
}

// IssuedToken is a signed access token together with the values a caller
// needs to describe it to the client.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *JWTManager) KeyID() string {
	return m.keys.kid
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (*IssuedToken, error) {
	now := time.Now()
	jti := uuid.New().String()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimStaff, claims.IsStaff).
		Claim(claimTokenVersion, claims.TokenVersion).
		Claim(claimType, tokenTypeAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.keys.private))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseAccessToken checks signature, registered claims and token type. It
// does not consult revocation state; see Service.VerifyAccessToken.
func (m *JWTManager) ParseAccessToken(
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.keys.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	claims, err := accessClaims(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %s: %w", err, core.ErrTokenInvalid)
	}
	return claims, nil
}

func accessClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	var tokenType string
	if err := token.Get(claimType, &tokenType); err != nil || tokenType != tokenTypeAccess {
		return nil, errors.New("invalid token type")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, errors.New("missing subject")
	}

	var staff bool
	if err := token.Get(claimStaff, &staff); err != nil {
		return nil, errors.New("missing staff claim")
	}

	var version float64
	if err := token.Get(claimTokenVersion, &version); err != nil {
		return nil, errors.New("missing token_version claim")
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       subject,
		IsStaff:      staff,
		TokenVersion: int(version),
		TokenID:      jti,
		ExpiresAt:    exp,
	}, nil
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.keys.set); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints an opaque refresh token. An empty familyID
// starts a new rotation family.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.New().String()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
