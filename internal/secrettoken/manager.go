// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

// Manager issues and redeems secret tokens.
type Manager struct {
	store     Store
	now       func() time.Time
	retention time.Duration
}

// Option customizes a [Manager].
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(manager *Manager) {
		manager.now = now
	}
}

// WithRetention overrides how long expired tokens are kept before purging.
func WithRetention(retention time.Duration) Option {
	return func(manager *Manager) {
		manager.retention = retention
	}
}

// NewManager creates a Manager on top of store.
func NewManager(store Store, opts ...Option) *Manager {
	manager := &Manager{
		store:     store,
		now:       time.Now,
		retention: constants.SecretTokenRetention,
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

/*
Issue creates a token for accountID and returns its raw value.

Any token previously issued to the account, of either purpose, stops working.

Parameters:
  - context: context.Context
  - accountID: string
  - purpose: Purpose

Returns:
  - string: The raw token, to be embedded in an emailed link
  - error: Random source or persistence failures
*/
func (manager *Manager) Issue(context context.Context, accountID string, purpose Purpose) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("secrettoken_issue_failed: unknown purpose %q", purpose)
	}

	random, err := sec.GenerateSecureToken(constants.SecretTokenBytes)
	if err != nil {
		return "", fmt.Errorf("secrettoken_issue_failed: %w", err)
	}
	raw := random + accountID

	createdAt := manager.now().UTC()
	token := &Token{
		AccountID: accountID,
		Purpose:   purpose,
		Hash:      sec.HashToken(raw),
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(purpose.TTL()),
	}

	if err := manager.store.Replace(context, token); err != nil {
		return "", fmt.Errorf("secrettoken_issue_failed: %w", err)
	}

	return raw, nil
}

/*
Consume redeems a raw token and returns the account it was issued to.

The lookup and the deletion are a single store operation filtered by purpose
and expiry. Only when that matched nothing is the store probed again to tell an
expired token apart from an unknown one.

Parameters:
  - context: context.Context
  - raw: string
  - purpose: Purpose

Returns:
  - string: Account ID
  - error: ErrNotFound, ErrExpired, or persistence failures
*/
func (manager *Manager) Consume(context context.Context, raw string, purpose Purpose) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNotFound
	}

	hash := sec.HashToken(raw)
	token, err := manager.store.Take(context, hash, purpose, manager.now().UTC())
	if err == nil {
		return token.AccountID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("secrettoken_consume_failed: %w", err)
	}

	exists, err := manager.store.Exists(context, hash, purpose)
	if err != nil {
		return "", fmt.Errorf("secrettoken_consume_failed: %w", err)
	}
	if exists {
		return "", ErrExpired
	}
	return "", ErrNotFound
}

/*
Purge removes tokens that expired more than the retention window ago.

Returns:
  - int64: Number of tokens removed
  - error: Persistence failures
*/
func (manager *Manager) Purge(context context.Context) (int64, error) {
	removed, err := manager.store.DeleteExpiredBefore(context, manager.now().UTC().Add(-manager.retention))
	if err != nil {
		return 0, fmt.Errorf("secrettoken_purge_failed: %w", err)
	}
	return removed, nil
}

// RunJanitor calls Purge every interval until context is cancelled.
func (manager *Manager) RunJanitor(context context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := manager.Purge(context)
			if err != nil {
				logger.Error("secret_token_purge_failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.Info("secret_token_purged", slog.Int64("removed", removed))
			}
		case <-context.Done():
			return
		}
	}
}
