package models

import "strings"

// Role is a coarse-grained authorization label attached to a user.
type Role string

// Known roles. RoleAdmin satisfies every role requirement.
const (
	RoleNone   Role = ""
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
	RoleViewer Role = "viewer"
	RoleUser   Role = "user"
)

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = RoleUser

var knownRoles = map[Role]struct{}{
	RoleAdmin:  {},
	RoleEditor: {},
	RoleAuthor: {},
	RoleViewer: {},
	RoleUser:   {},
}

// ParseRole maps a string onto a known role; anything else becomes RoleNone.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownRoles[r]; ok {
		return r
	}
	return RoleNone
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

// Satisfies reports whether a holder of r may access something requiring required.
func (r Role) Satisfies(required Role) bool {
	if !r.Valid() {
		return false
	}
	return r == RoleAdmin || r == required
}

func (r Role) String() string {
	return string(r)
}
