// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/authkit/internal/platform/database/schema"
)

// PostgresStore implements [Store] on the users.secrettoken table.
//
// The table is keyed by accountid, so replacing a token is a single upsert and
// two concurrent issues for one account can never leave two rows behind.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Replace upserts the account's token row.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Execution errors
*/
func (repository *PostgresStore) Replace(context context.Context, token *Token) error {
	table := schema.UserSecretToken
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		table.Table, schema.List(table.Columns()),
		table.AccountID,
		table.Purpose, table.Purpose,
		table.TokenHash, table.TokenHash,
		table.CreatedAt, table.CreatedAt,
		table.ExpiresAt, table.ExpiresAt,
	)

	_, err := repository.pool.Exec(context, query,
		token.AccountID, string(token.Purpose), token.Hash, token.CreatedAt, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("secret_token_replace_failed: %w", err)
	}
	return nil
}

/*
Take deletes and returns the matching live row in one statement.

Parameters:
  - context: context.Context
  - hash: string
  - purpose: Purpose
  - now: time.Time

Returns:
  - *Token: The consumed token
  - error: ErrNotFound when nothing matched
*/
func (repository *PostgresStore) Take(context context.Context, hash string, purpose Purpose, now time.Time) (*Token, error) {
	table := schema.UserSecretToken
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2 AND %s > $3
		RETURNING %s`,
		table.Table, table.TokenHash, table.Purpose, table.ExpiresAt,
		schema.List(table.Columns()),
	)

	var (
		token         Token
		storedPurpose string
	)
	err := repository.pool.QueryRow(context, query, hash, string(purpose), now).Scan(
		&token.AccountID, &storedPurpose, &token.Hash, &token.CreatedAt, &token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("secret_token_take_failed: %w", err)
	}

	token.Purpose = Purpose(storedPurpose)
	return &token, nil
}

/*
Exists reports whether a row with hash and purpose is present.

Parameters:
  - context: context.Context
  - hash: string
  - purpose: Purpose

Returns:
  - bool: Presence
  - error: Execution errors
*/
func (repository *PostgresStore) Exists(context context.Context, hash string, purpose Purpose) (bool, error) {
	table := schema.UserSecretToken
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		table.Table, table.TokenHash, table.Purpose,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, hash, string(purpose)).Scan(&exists); err != nil {
		return false, fmt.Errorf("secret_token_exists_failed: %w", err)
	}
	return exists, nil
}

/*
DeleteExpiredBefore removes rows that expired before cutoff.

Parameters:
  - context: context.Context
  - cutoff: time.Time

Returns:
  - int64: Rows removed
  - error: Execution errors
*/
func (repository *PostgresStore) DeleteExpiredBefore(context context.Context, cutoff time.Time) (int64, error) {
	table := schema.UserSecretToken
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, table.Table, table.ExpiresAt)

	tag, err := repository.pool.Exec(context, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("secret_token_purge_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
