// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the Postgres stores query, so
// SQL strings never spell identifiers by hand.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Name       string
	Email      string
	Password   string
	Role       string
	Photo      string
	Bio        string
	IsVerified string
	CreatedAt  string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Name:       "name",
	Email:      "email",
	Password:   "passwordhash",
	Role:       "role",
	Photo:      "photo",
	Bio:        "bio",
	IsVerified: "isverified",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Password, t.Role, t.Photo,
		t.Bio, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}

// List joins column names for a SELECT or RETURNING clause.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}
