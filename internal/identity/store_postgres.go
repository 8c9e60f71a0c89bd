// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/authkit/internal/platform/database/schema"
	"github.com/taibuivan/authkit/internal/platform/dberr"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

// PostgresAccountRepository implements [AccountRepository] on users.account.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create inserts a new account row.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: dberr.ErrDuplicate on an email collision
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		table.Table, schema.List(table.Columns()),
	)

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.Photo,
		account.Bio,
		account.IsVerified,
		account.CreatedAt,
		account.UpdatedAt,
	)
	return dberr.Wrap(err, "postgres_account_repo_create_failed")
}

/*
FindByID fetches a single account by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Hydrated entity
  - error: dberr.ErrNotFound or retrieval failures
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	return repository.findOne(context, schema.UserAccount.ID, id)
}

/*
FindByEmail fetches a single account by its normalized email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: dberr.ErrNotFound or retrieval failures
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	return repository.findOne(context, schema.UserAccount.Email, email)
}

func (repository *PostgresAccountRepository) findOne(context context.Context, column, value string) (*Account, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(table.Columns()), table.Table, column)

	account, err := scanAccount(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_account_repo_find_failed")
	}
	return account, nil
}

/*
UpdateProfile persists name, bio and photo.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: dberr.ErrNotFound or update failures
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, account *Account) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		table.Table,
		table.Name, table.Bio, table.Photo, table.UpdatedAt,
		table.ID,
	)

	account.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		account.ID, account.Name, account.Bio, account.Photo, account.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
UpdatePassword replaces the stored password hash.

Parameters:
  - context: context.Context
  - id: string
  - hash: string

Returns:
  - error: dberr.ErrNotFound or update failures
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, id, hash string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		table.Table, table.Password, table.UpdatedAt, table.ID)

	tag, err := repository.pool.Exec(context, query, id, hash)
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_password_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
MarkVerified sets isverified only while it is still false, so concurrent
redemptions flip it exactly once.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - bool: Whether this call changed the flag
  - error: dberr.ErrNotFound or update failures
*/
func (repository *PostgresAccountRepository) MarkVerified(context context.Context, id string) (bool, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s SET %s = TRUE, %s = NOW()
		WHERE %s = $1 AND %s = FALSE`,
		table.Table, table.IsVerified, table.UpdatedAt,
		table.ID, table.IsVerified,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "postgres_account_repo_verify_failed")
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing changed: either already verified or gone.
	if _, err := repository.FindByID(context, id); err != nil {
		return false, err
	}
	return false, nil
}

// # Helpers

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	var role string
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.Photo,
		&account.Bio,
		&account.IsVerified,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Role = sec.UserRole(role)
	return account, nil
}
