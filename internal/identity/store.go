// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "context"

// # Account Data Access

// AccountRepository defines the data access contract for accounts.
//
// Implementations report a missing row as [dberr.ErrNotFound] and an email
// collision as [dberr.ErrDuplicate].
type AccountRepository interface {

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: dberr.ErrDuplicate when the email is taken
	*/
	Create(context context.Context, account *Account) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		UpdateProfile persists the name, bio and photo of account and refreshes
		its UpdatedAt.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: dberr.ErrNotFound or persistence failures
	*/
	UpdateProfile(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - id: string
		  - hash: string

		Returns:
		  - error: dberr.ErrNotFound or persistence failures
	*/
	UpdatePassword(context context.Context, id, hash string) error

	/*
		MarkVerified flips isverified from false to true.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - bool: false when the account was already verified
		  - error: dberr.ErrNotFound or persistence failures
	*/
	MarkVerified(context context.Context, id string) (bool, error)
}
