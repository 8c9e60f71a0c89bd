// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity implements the account owner service: registration, login,
profile management, email verification and password recovery.

# Architecture

  - Entities: Account (the source of truth for every credential's claims).
  - Service: Orchestrates the credential lifecycle flows; it is the only
    component that issues bearer credentials or secret tokens.
  - Repository: [AccountRepository], backed by Postgres or memory.
  - Handler: Thin HTTP mediation; sets and clears the credential cookie.

Accounts are never deleted here.
*/
package identity

import (
	"net/http"
	"time"

	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

// # Domain Entities

// Account represents a registered user.
type Account struct {
	ID           string       `json:"_id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Photo        string       `json:"photo"`
	Bio          string       `json:"bio"`
	IsVerified   bool         `json:"isVerified"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Subject returns the claim snapshot for a new credential.
func (account *Account) Subject() sec.Subject {
	return sec.Subject{
		ID:         account.ID,
		Email:      account.Email,
		Role:       account.Role,
		Name:       account.Name,
		IsVerified: account.IsVerified,
	}
}

// PublicProfile is the projection served to other services by GET /user/{id}.
type PublicProfile struct {
	ID         string       `json:"_id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Role       sec.UserRole `json:"role"`
	IsVerified bool         `json:"isVerified"`
	Photo      string       `json:"photo"`
	Bio        string       `json:"bio"`
}

// Public returns the public projection of the account.
func (account *Account) Public() PublicProfile {
	return PublicProfile{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		Role:       account.Role,
		IsVerified: account.IsVerified,
		Photo:      account.Photo,
		Bio:        account.Bio,
	}
}

// # Domain Errors

// loginFailedMessage is shared by both login failure modes so the response
// text does not reveal which one occurred.
const loginFailedMessage = "Invalid email or password"

var (
	ErrAccountNotFound = apperr.New(http.StatusNotFound, "ACCOUNT_NOT_FOUND", "User not found")
	ErrUnknownLogin    = apperr.New(http.StatusNotFound, "ACCOUNT_NOT_FOUND", loginFailedMessage)
	ErrBadCredentials  = apperr.New(http.StatusBadRequest, "BAD_CREDENTIALS", loginFailedMessage)
	ErrDuplicateEmail  = apperr.New(http.StatusBadRequest, "DUPLICATE_EMAIL", "User already exists")
	ErrInvalidToken    = apperr.New(http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN", "Invalid or expired token")
	ErrBadPassword     = apperr.New(http.StatusBadRequest, "BAD_PASSWORD", "Invalid password!")
	ErrAlreadyVerified = apperr.New(http.StatusBadRequest, "ALREADY_VERIFIED", "User is already verified")
	ErrEmailFailed     = apperr.New(http.StatusInternalServerError, "EMAIL_FAILED", "Email could not be sent")
	ErrInvalidID       = apperr.New(http.StatusBadRequest, apperr.CodeInvalidFormat, "Invalid user ID format")
)

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
	FieldBio             = "bio"
	FieldPhoto           = "photo"
)

// # Constraints

const (
	// MinPasswordLength applies to registration, reset and change.
	MinPasswordLength = 6

	// MaxNameLength and MaxBioLength bound free-form profile text.
	MaxNameLength = 100
	MaxBioLength  = 500
)
