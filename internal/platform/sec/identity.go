// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// TrustLevel records where a resolved identity's attributes came from.
type TrustLevel string

const (
	// TrustRemote means the identity service confirmed the account.
	TrustRemote TrustLevel = "remote"

	// TrustDegraded means the attributes were taken from credential claims
	// because the identity service could not be reached.
	TrustDegraded TrustLevel = "degraded"
)

// Identity is the caller as seen by a service that does not own accounts.
type Identity struct {
	ID    string     `json:"_id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  UserRole   `json:"role"`
	Trust TrustLevel `json:"-"`
}

// Degraded reports whether the identity was built from claims alone.
func (identity Identity) Degraded() bool {
	return identity.Trust == TrustDegraded
}
