package auth

import (
	"time"

	"jobboard/internal/database"
)

// Role is one of the three mutually exclusive account roles. There is no hierarchy.
type Role string

const (
	RoleAdmin     Role = database.RoleAdmin
	RoleEmployer  Role = database.RoleEmployer
	RoleCandidate Role = database.RoleCandidate
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleEmployer, RoleCandidate}

// ParseRole validates a stored or submitted role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Actor is the authenticated identity of one request.
// It is built once by the auth middleware and passed by value from then on.
type Actor struct {
	UserID             uint
	Role               Role
	MustChangePassword bool
	TokenID            string
	TokenExpiresAt     time.Time
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
