package domain

import (
	"errors"
	"fmt"
)

// Role is the closed set of user roles. The zero value is not a valid role.
type Role string

const (
	RoleLead      Role = "lead"
	RoleDeveloper Role = "developer"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleLead, RoleDeveloper}

var ErrInvalidRole = errors.New("domain: invalid role")

// ParseRole accepts exactly "lead" or "developer". There is no default: an
// empty string is an error like any other unknown value.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleLead, RoleDeveloper:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
