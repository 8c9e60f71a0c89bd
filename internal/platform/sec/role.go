// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can publish and manage content beyond their own tasks
	RoleCreator UserRole = "creator"

	// Default role for newly registered accounts
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the known roles. The resolver relies on
// it to reject identity-service answers with an unknown role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCreator, RoleUser:
		return true
	default:
		return false
	}
}
