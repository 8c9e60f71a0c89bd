// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserSecretTokenTable represents the 'users.secrettoken' table
type UserSecretTokenTable struct {
	Table     string
	AccountID string
	Purpose   string
	TokenHash string
	CreatedAt string
	ExpiresAt string
}

// UserSecretToken is the schema definition for users.secrettoken
var UserSecretToken = UserSecretTokenTable{
	Table:     "users.secrettoken",
	AccountID: "accountid",
	Purpose:   "purpose",
	TokenHash: "tokenhash",
	CreatedAt: "createdat",
	ExpiresAt: "expiresat",
}

// Columns returns all standard column names, in scan order.
func (t UserSecretTokenTable) Columns() []string {
	return []string{t.AccountID, t.Purpose, t.TokenHash, t.CreatedAt, t.ExpiresAt}
}
