package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role represents a user's role in the system.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleDeveloper Role = "DEVELOPER"
	RoleViewer    Role = "VIEWER"
)

// IsValid checks if the role is one of the allowed values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleViewer:
		return true
	default:
		return false
	}
}

// ParseRole converts user input to a canonical Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return role, nil
}

// User represents a registered account that can create and work on tasks.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Actor is the authenticated caller of an operation. Role may be empty
// when the caller's credentials carry no role information; an empty role
// is treated as "not admin", never as an error.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin checks if the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
