package domain

import "time"

// RefreshToken is the stored record of an opaque refresh token. Only the
// fingerprint is kept.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	SessionID string // shared by every token rotated from one login
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Usable reports whether the token can still be exchanged at now.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Session is a successful login: credentials plus who they belong to.
type Session struct {
	TokenPair
	User Actor
}
