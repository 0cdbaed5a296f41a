package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Signer signs access tokens and publishes the key that verifies them.
type Signer interface {
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
}

// EdDSASigner signs with a single Ed25519 key.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
}

func NewEdDSASigner(kid string, key ed25519.PrivateKey) (*EdDSASigner, error) {
	if kid == "" {
		return nil, errors.New("jwtx: signer kid is required")
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	return &EdDSASigner{kid: kid, key: key}, nil
}

// GenerateEdDSASigner creates a signer around a fresh key and a random kid.
func GenerateEdDSASigner() (*EdDSASigner, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate Ed25519 key: %w", err)
	}
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}
	return NewEdDSASigner("tasks-"+kid, key)
}

func (s *EdDSASigner) KID() string { return s.kid }

// Sign returns the compact JWS for claims with the kid header set.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

func (s *EdDSASigner) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, "sig", AlgorithmEdDSA, s.key.Public().(ed25519.PublicKey))
}
