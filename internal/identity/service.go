// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/authkit/internal/platform/ctxutil"
	"github.com/taibuivan/authkit/internal/platform/dberr"
	"github.com/taibuivan/authkit/internal/platform/mail"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/secrettoken"
	"github.com/taibuivan/authkit/pkg/textnorm"
	"github.com/taibuivan/authkit/pkg/uuid"
)

// # Contracts & Types

// CredentialIssuer signs bearer credentials. [*sec.TokenService] satisfies it.
type CredentialIssuer interface {
	Issue(subject sec.Subject) (string, error)
}

// SecretTokens issues and redeems single-use secret tokens.
// [*secrettoken.Manager] satisfies it.
type SecretTokens interface {
	Issue(context context.Context, accountID string, purpose secrettoken.Purpose) (string, error)
	Consume(context context.Context, raw string, purpose secrettoken.Purpose) (string, error)
}

// Service implements the credential lifecycle flows.
//
// It is the only component allowed to issue bearer credentials and secret tokens.
type Service struct {
	accounts    AccountRepository
	credentials CredentialIssuer
	tokens      SecretTokens
	mailer      mail.Sender
	clientURL   string
}

// NewService constructs a new [Service].
//
// clientURL is the browser-facing origin used to build emailed links.
func NewService(
	accounts AccountRepository,
	credentials CredentialIssuer,
	tokens SecretTokens,
	mailer mail.Sender,
	clientURL string,
) *Service {
	return &Service{
		accounts:    accounts,
		credentials: credentials,
		tokens:      tokens,
		mailer:      mailer,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

// Session is an account together with a freshly issued credential.
type Session struct {
	Account *Account
	Token   string
}

// # Registration & Login

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register creates an unverified account and signs its first credential.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Created account and credential
  - error: ErrDuplicateEmail or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	email := textnorm.Email(input.Email)

	// Fast path for the common duplicate case; the unique index still decides races.
	if _, err := service.accounts.FindByEmail(context, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, dberr.ErrNotFound) {
		return nil, fmt.Errorf("identity_register_failed: %w", err)
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_register_failed: %w", err)
	}

	now := time.Now().UTC()
	account := &Account{
		ID:           uuid.New(),
		Name:         textnorm.Name(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         sec.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.accounts.Create(context, account); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("identity_register_failed: %w", err)
	}

	return service.openSession(account)
}

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login checks the password and signs a fresh credential.

Both failure modes share a message; only the log line tells them apart.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Account and credential
  - error: ErrUnknownLogin, ErrBadCredentials or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	logger := ctxutil.GetLogger(context)

	account, err := service.accounts.FindByEmail(context, textnorm.Email(input.Email))
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			logger.WarnContext(context, "login_failed", slog.String("reason", "unknown_email"))
			return nil, ErrUnknownLogin
		}
		return nil, fmt.Errorf("identity_login_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		logger.WarnContext(context, "login_failed",
			slog.String("reason", "bad_password"),
			slog.String("account_id", account.ID),
		)
		return nil, ErrBadCredentials
	}

	return service.openSession(account)
}

func (service *Service) openSession(account *Account) (*Session, error) {
	token, err := service.credentials.Issue(account.Subject())
	if err != nil {
		return nil, fmt.Errorf("identity_issue_credential_failed: %w", err)
	}
	return &Session{Account: account, Token: token}, nil
}

// # Profile

/*
Account returns the full account of the authenticated caller.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated entity
  - error: ErrAccountNotFound or storage errors
*/
func (service *Service) Account(context context.Context, id string) (*Account, error) {
	account, err := service.accounts.FindByID(context, id)
	if err != nil {
		return nil, accountError(err, "identity_get_account_failed")
	}
	return account, nil
}

/*
PublicProfile returns the public projection of any account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - PublicProfile: Projection
  - error: ErrInvalidID, ErrAccountNotFound or storage errors
*/
func (service *Service) PublicProfile(context context.Context, id string) (PublicProfile, error) {
	if !uuid.Valid(id) {
		return PublicProfile{}, ErrInvalidID
	}

	account, err := service.Account(context, id)
	if err != nil {
		return PublicProfile{}, err
	}
	return account.Public(), nil
}

// UpdateProfileInput holds the editable profile fields. Empty values keep
// the current value.
type UpdateProfileInput struct {
	Name  string
	Bio   string
	Photo string
}

/*
UpdateProfile applies the non-empty fields of input to the account.

The caller's existing credential keeps the old name until it is reissued.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateProfileInput

Returns:
  - *Account: Updated entity
  - error: ErrAccountNotFound or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*Account, error) {
	account, err := service.Account(context, id)
	if err != nil {
		return nil, err
	}

	if name := textnorm.Name(input.Name); name != "" {
		account.Name = name
	}
	if bio := strings.TrimSpace(input.Bio); bio != "" {
		account.Bio = bio
	}
	if photo := strings.TrimSpace(input.Photo); photo != "" {
		account.Photo = photo
	}

	if err := service.accounts.UpdateProfile(context, account); err != nil {
		return nil, accountError(err, "identity_update_profile_failed")
	}
	return account, nil
}

// # Passwords

/*
ChangePassword replaces the password after checking the current one.

Parameters:
  - context: context.Context
  - id: string
  - current: string
  - next: string

Returns:
  - error: ErrBadPassword, ErrAccountNotFound or storage errors
*/
func (service *Service) ChangePassword(context context.Context, id, current, next string) error {
	account, err := service.Account(context, id)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(current, account.PasswordHash) {
		return ErrBadPassword
	}

	return service.setPassword(context, account.ID, next)
}

/*
ForgotPassword issues a reset token and emails the reset link.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: ErrAccountNotFound, ErrEmailFailed or storage errors
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	account, err := service.accounts.FindByEmail(context, textnorm.Email(email))
	if err != nil {
		return accountError(err, "identity_forgot_password_failed")
	}

	raw, err := service.tokens.Issue(context, account.ID, secrettoken.PurposeReset)
	if err != nil {
		return fmt.Errorf("identity_forgot_password_failed: %w", err)
	}

	return service.send(context, mail.Message{
		To:       account.Email,
		Subject:  "Password Reset - AuthKit",
		Template: mail.TemplateForgotPassword,
		Name:     account.Name,
		Link:     service.link("reset-password", raw),
	})
}

/*
ResetPassword redeems a reset token and stores the new password.

Parameters:
  - context: context.Context
  - raw: string
  - password: string

Returns:
  - error: ErrInvalidToken or storage errors
*/
func (service *Service) ResetPassword(context context.Context, raw, password string) error {
	accountID, err := service.tokens.Consume(context, raw, secrettoken.PurposeReset)
	if err != nil {
		return tokenError(err, "identity_reset_password_failed")
	}

	if err := service.setPassword(context, accountID, password); err != nil {
		// The token row has no foreign key, so the account may be gone.
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (service *Service) setPassword(context context.Context, id, password string) error {
	hash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("identity_hash_password_failed: %w", err)
	}
	if err := service.accounts.UpdatePassword(context, id, hash); err != nil {
		return accountError(err, "identity_update_password_failed")
	}
	return nil
}

// # Email Verification

/*
RequestVerification issues a verification token and emails the link.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: ErrAlreadyVerified, ErrEmailFailed or storage errors
*/
func (service *Service) RequestVerification(context context.Context, id string) error {
	account, err := service.Account(context, id)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	raw, err := service.tokens.Issue(context, account.ID, secrettoken.PurposeVerification)
	if err != nil {
		return fmt.Errorf("identity_request_verification_failed: %w", err)
	}

	return service.send(context, mail.Message{
		To:       account.Email,
		Subject:  "Email Verification - AuthKit",
		Template: mail.TemplateEmailVerification,
		Name:     account.Name,
		Link:     service.link("verify-email", raw),
	})
}

/*
VerifyAccount redeems a verification token and marks the account verified.

Parameters:
  - context: context.Context
  - raw: string

Returns:
  - error: ErrInvalidToken, ErrAlreadyVerified or storage errors
*/
func (service *Service) VerifyAccount(context context.Context, raw string) error {
	accountID, err := service.tokens.Consume(context, raw, secrettoken.PurposeVerification)
	if err != nil {
		return tokenError(err, "identity_verify_account_failed")
	}

	changed, err := service.accounts.MarkVerified(context, accountID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("identity_verify_account_failed: %w", err)
	}
	if !changed {
		return ErrAlreadyVerified
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_verified", slog.String("account_id", accountID))
	return nil
}

// # Helpers

func (service *Service) link(path, raw string) string {
	return fmt.Sprintf("%s/%s/%s", service.clientURL, path, raw)
}

func (service *Service) send(context context.Context, message mail.Message) error {
	if err := service.mailer.Send(context, message); err != nil {
		return ErrEmailFailed.WithCause(err)
	}
	return nil
}

// accountError translates a repository miss into ErrAccountNotFound.
func accountError(err error, action string) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrAccountNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}

// tokenError merges the not-found and expired cases into ErrInvalidToken.
func tokenError(err error, action string) error {
	if errors.Is(err, secrettoken.ErrNotFound) || errors.Is(err, secrettoken.ErrExpired) {
		return ErrInvalidToken
	}
	return fmt.Errorf("%s: %w", action, err)
}
