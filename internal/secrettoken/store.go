// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken

import (
	"context"
	"time"
)

// # Data Access

// Store persists secret tokens. Implementations must make Replace and Take
// atomic: concurrent callers never observe two tokens for one account, and a
// token is returned by Take at most once.
type Store interface {

	/*
		Replace stores token as the only token of its account.

		Parameters:
		  - context: context.Context
		  - token: *Token

		Returns:
		  - error: Persistence failures
	*/
	Replace(context context.Context, token *Token) error

	/*
		Take deletes and returns the token matching hash and purpose whose
		expiry is after now.

		Parameters:
		  - context: context.Context
		  - hash: string
		  - purpose: Purpose
		  - now: time.Time

		Returns:
		  - *Token: The consumed token
		  - error: ErrNotFound when nothing matched
	*/
	Take(context context.Context, hash string, purpose Purpose, now time.Time) (*Token, error)

	/*
		Exists reports whether a token with hash and purpose is stored,
		regardless of expiry.

		Parameters:
		  - context: context.Context
		  - hash: string
		  - purpose: Purpose

		Returns:
		  - bool: Presence
		  - error: Retrieval failures
	*/
	Exists(context context.Context, hash string, purpose Purpose) (bool, error)

	/*
		DeleteExpiredBefore removes tokens whose expiry is before cutoff.

		Parameters:
		  - context: context.Context
		  - cutoff: time.Time

		Returns:
		  - int64: Rows removed
		  - error: Persistence failures
	*/
	DeleteExpiredBefore(context context.Context, cutoff time.Time) (int64, error)
}
