// Package auth holds the caller identity model. Authentication itself happens
// at the gateway; services only receive the already-verified result.
package auth

import "slices"

// RoleAdmin grants administrative access across the system.
const RoleAdmin = "ADMIN"

// Identity describes an already-authenticated caller. It is extracted at the
// transport boundary and passed explicitly to every operation that needs it,
// never carried as ambient state.
type Identity struct {
	UserID   string
	Username string
	Roles    []string
}

// IsAdmin reports whether the caller carries the admin role.
func (id Identity) IsAdmin() bool {
	return slices.Contains(id.Roles, RoleAdmin)
}
