package jwtx

import (
	"time"

	"github.com/aussiebroadwan/tasktrack/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = 5 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims carry enough of the user to act on a request without loading it.
type Claims struct {
	jwt.RegisteredClaims

	// SID is shared by every access token of one login, across refreshes.
	SID      string `json:"sid,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// NewAccessClaims stamps iat and nbf at now, exp at now+ttl and a fresh ULID
// jti.
func NewAccessClaims(subject, sid, username, role string, ttl time.Duration, issuer string, audience []string, now time.Time) Claims {
	c := Claims{SID: sid, Username: username, Role: role}
	c.Issuer = issuer
	c.Subject = subject
	c.Audience = audience
	c.ID = idx.NewAt(now).String()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.NotBefore = c.IssuedAt
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return c
}

// ExpiresAtTime returns exp, or the zero time if absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
