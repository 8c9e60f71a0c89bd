// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/identity"
	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.Code
}

/*
TestService_Register verifies normalization, defaults and the issued credential.
*/
func TestService_Register(t *testing.T) {
	f := newFixture(t)

	session := f.register(t, "  Ada   Lovelace ", " Ada@Example.COM ", "secret1")

	assert.Equal(t, "Ada Lovelace", session.Account.Name)
	assert.Equal(t, "ada@example.com", session.Account.Email)
	assert.Equal(t, sec.RoleUser, session.Account.Role)
	assert.False(t, session.Account.IsVerified)
	assert.NotEqual(t, "secret1", session.Account.PasswordHash)

	claims, err := f.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.AccountID)
	assert.Equal(t, session.Account.ID, claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "user", claims.Role)
	assert.False(t, claims.IsVerified)
}

/*
TestService_Register_Duplicate verifies that email uniqueness ignores case.
*/
func TestService_Register_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com", "secret1")

	_, err := f.service.Register(context.Background(), identity.RegisterInput{
		Name: "Imposter", Email: "ADA@example.com", Password: "secret2",
	})
	assert.ErrorIs(t, err, identity.ErrDuplicateEmail)
	assert.Equal(t, "DUPLICATE_EMAIL", codeOf(t, err))
}

/*
TestService_Login covers the success path and both failure modes.
*/
func TestService_Login(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")

	t.Run("success", func(t *testing.T) {
		session, err := f.service.Login(context.Background(), identity.LoginInput{
			Email: "ADA@example.com", Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.Account.ID, session.Account.ID)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := f.service.Login(context.Background(), identity.LoginInput{
			Email: "nobody@example.com", Password: "secret1",
		})
		assert.Equal(t, "ACCOUNT_NOT_FOUND", codeOf(t, err))
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("bad_password", func(t *testing.T) {
		_, err := f.service.Login(context.Background(), identity.LoginInput{
			Email: "ada@example.com", Password: "wrong-password",
		})
		assert.Equal(t, "BAD_CREDENTIALS", codeOf(t, err))
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("same_message", func(t *testing.T) {
		assert.Equal(t, identity.ErrUnknownLogin.Message, identity.ErrBadCredentials.Message)
	})
}

/*
TestService_PublicProfile verifies id validation and the projection.
*/
func TestService_PublicProfile(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")

	profile, err := f.service.PublicProfile(context.Background(), registered.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, profile.ID)
	assert.Equal(t, "Ada", profile.Name)

	_, err = f.service.PublicProfile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, identity.ErrInvalidID)

	_, err = f.service.PublicProfile(context.Background(), "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, identity.ErrAccountNotFound)
}

/*
TestService_UpdateProfile verifies that empty fields keep their value.
*/
func TestService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")
	id := registered.Account.ID

	updated, err := f.service.UpdateProfile(context.Background(), id, identity.UpdateProfileInput{
		Bio: "Analyst", Photo: "https://example.com/ada.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "Analyst", updated.Bio)

	updated, err = f.service.UpdateProfile(context.Background(), id, identity.UpdateProfileInput{Name: "Countess"})
	require.NoError(t, err)
	assert.Equal(t, "Countess", updated.Name)
	assert.Equal(t, "Analyst", updated.Bio)
	assert.Equal(t, "https://example.com/ada.png", updated.Photo)

	stored, err := f.service.Account(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Countess", stored.Name)
}

/*
TestService_ChangePassword verifies the current password check.
*/
func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")
	id := registered.Account.ID

	err := f.service.ChangePassword(context.Background(), id, "wrong", "secret2")
	assert.ErrorIs(t, err, identity.ErrBadPassword)

	require.NoError(t, f.service.ChangePassword(context.Background(), id, "secret1", "secret2"))

	_, err = f.service.Login(context.Background(), identity.LoginInput{Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, identity.ErrBadCredentials)
	_, err = f.service.Login(context.Background(), identity.LoginInput{Email: "ada@example.com", Password: "secret2"})
	assert.NoError(t, err)
}

/*
TestService_PasswordReset covers the full forgot/reset flow and single use.
*/
func TestService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com", "secret1")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "Ada@Example.com"))
	require.Len(t, f.mailer.messages, 1)
	assert.Equal(t, "ada@example.com", f.mailer.messages[0].To)

	raw := f.mailer.lastToken(t, "reset-password")
	require.NoError(t, f.service.ResetPassword(context.Background(), raw, "brand-new"))

	err := f.service.ResetPassword(context.Background(), raw, "again-new")
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", codeOf(t, err))

	_, err = f.service.Login(context.Background(), identity.LoginInput{Email: "ada@example.com", Password: "brand-new"})
	assert.NoError(t, err)
}

/*
TestService_ForgotPassword_Errors covers unknown accounts and mail failures.
*/
func TestService_ForgotPassword_Errors(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com", "secret1")

	err := f.service.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrAccountNotFound)

	f.mailer.fail = true
	err = f.service.ForgotPassword(context.Background(), "ada@example.com")
	assert.Equal(t, "EMAIL_FAILED", codeOf(t, err))
	assert.Equal(t, 500, apperr.As(err).HTTPStatus)
}

/*
TestService_ResetToken_WrongPurpose verifies a reset token cannot verify an email.
*/
func TestService_ResetToken_WrongPurpose(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com", "secret1")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "ada@example.com"))
	raw := f.mailer.lastToken(t, "reset-password")

	err := f.service.VerifyAccount(context.Background(), raw)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	// Still redeemable for its own purpose.
	assert.NoError(t, f.service.ResetPassword(context.Background(), raw, "brand-new"))
}

/*
TestService_Verification covers request, redemption and repeated attempts.
*/
func TestService_Verification(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")
	id := registered.Account.ID

	require.NoError(t, f.service.RequestVerification(context.Background(), id))
	raw := f.mailer.lastToken(t, "verify-email")

	require.NoError(t, f.service.VerifyAccount(context.Background(), raw))

	account, err := f.service.Account(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, account.IsVerified)

	// Single use.
	err = f.service.VerifyAccount(context.Background(), raw)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	err = f.service.RequestVerification(context.Background(), id)
	assert.ErrorIs(t, err, identity.ErrAlreadyVerified)
}

/*
TestService_Verification_Stale verifies that an older token stops working once
a newer one is issued.
*/
func TestService_Verification_Stale(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "Ada", "ada@example.com", "secret1")
	id := registered.Account.ID

	require.NoError(t, f.service.RequestVerification(context.Background(), id))
	first := f.mailer.lastToken(t, "verify-email")
	require.NoError(t, f.service.RequestVerification(context.Background(), id))
	second := f.mailer.lastToken(t, "verify-email")
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, f.service.VerifyAccount(context.Background(), first), identity.ErrInvalidToken)
	assert.NoError(t, f.service.VerifyAccount(context.Background(), second))
}
