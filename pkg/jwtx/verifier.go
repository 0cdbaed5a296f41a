package jwtx

import (
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// EdDSAVerifier accepts Ed25519-signed tokens whose kid is in keys. An empty
// issuer or audience skips that check.
type EdDSAVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
	parser   *jwt.Parser
}

func NewEdDSAVerifier(keys *KeySet, issuer string, audience []string) *EdDSAVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &EdDSAVerifier{keys: keys, issuer: issuer, audience: audience, parser: jwt.NewParser(opts...)}
}

func (v *EdDSAVerifier) keyFor(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrUnknownKID
	}
	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
	}
	return pub, nil
}

func (v *EdDSAVerifier) Verify(raw string) (Claims, error) {
	var c Claims
	if _, err := v.parser.ParseWithClaims(raw, &c, v.keyFor); err != nil {
		return Claims{}, translate(err)
	}

	// A token passes when it names any one of the accepted audiences.
	if len(v.audience) > 0 && !slices.ContainsFunc(v.audience, func(a string) bool {
		return slices.Contains(c.Audience, a)
	}) {
		return Claims{}, ErrAudience
	}
	return c, nil
}

// translate maps jwt parse errors onto this package's sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	}
	return fmt.Errorf("jwtx: verify: %w", err)
}
