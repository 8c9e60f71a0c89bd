// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package secrettoken manages single-use secret tokens for email verification and
password reset.

Lifecycle:

  - Issue: a raw value (512 random bits, hex, followed by the account id) is
    handed to the caller exactly once. Only its SHA-256 digest is stored.
  - Replace: every account holds at most one token. Issuing a new one, of
    either purpose, atomically replaces the previous row.
  - Consume: the digest is looked up and deleted in one step, filtered by
    purpose and expiry, so a token can never be redeemed twice.
  - Purge: a janitor drops rows that expired longer than the retention window.
*/
package secrettoken

import (
	"errors"
	"time"

	"github.com/taibuivan/authkit/internal/platform/constants"
)

// # Purposes

// Purpose separates verification tokens from reset tokens.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
)

// TTL is the time a token of this purpose stays redeemable.
func (purpose Purpose) TTL() time.Duration {
	switch purpose {
	case PurposeReset:
		return constants.ResetTokenTTL
	default:
		return constants.VerificationTokenTTL
	}
}

// Valid reports whether purpose is known.
func (purpose Purpose) Valid() bool {
	return purpose == PurposeVerification || purpose == PurposeReset
}

// # Entity

// Token is the stored form of a secret token. The raw value is never part of it.
type Token struct {
	AccountID string
	Purpose   Purpose
	Hash      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// # Errors

var (
	// ErrNotFound means no token with that value and purpose exists (never
	// issued, already consumed, replaced, or purged).
	ErrNotFound = errors.New("secrettoken: not found")

	// ErrExpired means the token exists but is past its expiry.
	ErrExpired = errors.New("secrettoken: expired")
)
