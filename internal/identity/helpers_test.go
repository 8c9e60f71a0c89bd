// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/identity"
	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/mail"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/secrettoken"
)

const (
	testSecret    = "identity-test-secret-0123456789abcdef"
	testClientURL = "http://localhost:3000"
)

// captureMailer records every message instead of sending it.
type captureMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     bool
}

func (mailer *captureMailer) Send(_ context.Context, message mail.Message) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()

	if mailer.fail {
		return errors.New("smtp unavailable")
	}
	mailer.messages = append(mailer.messages, message)
	return nil
}

// lastToken returns the raw token at the end of the latest link for prefix.
func (mailer *captureMailer) lastToken(t *testing.T, prefix string) string {
	t.Helper()
	mailer.mu.Lock()
	defer mailer.mu.Unlock()

	require.NotEmpty(t, mailer.messages, "no mail captured")
	link := mailer.messages[len(mailer.messages)-1].Link
	base := testClientURL + "/" + prefix + "/"
	require.True(t, strings.HasPrefix(link, base), "unexpected link %q", link)
	return strings.TrimPrefix(link, base)
}

type fixture struct {
	service  *identity.Service
	accounts *identity.MemoryAccountRepository
	tokens   *sec.TokenService
	mailer   *captureMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService([]byte(testSecret), constants.DefaultAuthIssuer, constants.CredentialTTL)
	require.NoError(t, err)

	accounts := identity.NewMemoryAccountRepository()
	mailer := &captureMailer{}
	manager := secrettoken.NewManager(secrettoken.NewMemoryStore())

	return &fixture{
		service:  identity.NewService(accounts, tokens, manager, mailer, testClientURL+"/"),
		accounts: accounts,
		tokens:   tokens,
		mailer:   mailer,
	}
}

func (f *fixture) register(t *testing.T, name, email, password string) *identity.Session {
	t.Helper()
	session, err := f.service.Register(context.Background(), identity.RegisterInput{
		Name: name, Email: email, Password: password,
	})
	require.NoError(t, err)
	return session
}
