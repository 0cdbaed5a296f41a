package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// JWK is the RFC 8037 OKP form of an Ed25519 public key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

const (
	ktyOKP     = "OKP"
	crvEd25519 = "Ed25519"
)

func NewEd25519JWK(kid, use, alg string, pub ed25519.PublicKey) JWK {
	return JWK{Kty: ktyOKP, Crv: crvEd25519, Kid: kid, Use: use, Alg: alg, X: base64.RawURLEncoding.EncodeToString(pub)}
}

// PublicKey decodes X. Only OKP/Ed25519 keys are accepted.
func (j JWK) PublicKey() (ed25519.PublicKey, error) {
	if j.Kty != ktyOKP || j.Crv != crvEd25519 {
		return nil, fmt.Errorf("jwtx: unsupported key %s/%s", j.Kty, j.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode x: %w", err)
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("jwtx: Ed25519 key is %d bytes", len(x))
	}
	return ed25519.PublicKey(x), nil
}
