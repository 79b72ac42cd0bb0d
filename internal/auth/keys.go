// AngelaMos | 2026
// keys.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// signingKeys is the ES256 private key and the public set served at
// /.well-known/jwks.json. The key id is the RFC 7638 thumbprint, so every
// replica loading the same PEM advertises the same kid.
type signingKeys struct {
	private jwk.Key
	public  jwk.Key
	set     jwk.Set
	kid     string
}

func loadSigningKeys(privatePEM []byte) (*signingKeys, error) {
	private, err := jwk.ParseKey(privatePEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	kid, err := thumbprintID(private)
	if err != nil {
		return nil, err
	}

	if err := labelKey(private, kid); err != nil {
		return nil, err
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &signingKeys{private: private, public: public, set: set, kid: kid}, nil
}

func thumbprintID(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("thumbprint key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

func labelKey(key jwk.Key, kid string) error {
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	return nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM. The private key is
// readable by the owner only.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	privatePEM, err := jwk.Pem(private)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}
	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(public)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is meant to be world-readable
	if err := os.WriteFile(publicKeyPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}
