package domain

import "time"

type User struct {
	ID           string
	Username     string // unique, case-sensitive
	PasswordHash string // argon2id PHC string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) String() string { return u.Username }

// Actor returns the identity this user acts as once authenticated.
func (u User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID       string
	Username string
	Role     Role
}

func (a Actor) IsLead() bool      { return a.Role == RoleLead }
func (a Actor) IsDeveloper() bool { return a.Role == RoleDeveloper }
