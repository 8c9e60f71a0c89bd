// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/authkit/internal/platform/constants"
)

// # Scripts

// replaceScript drops the account's previous token and stores the new one.
//
// KEYS[1] account slot, KEYS[2] new token key.
// ARGV: hash, account, purpose, created_ms, expires_ms, ttl_ms, token prefix.
var replaceScript = redis.NewScript(`
local previous = redis.call('GET', KEYS[1])
if previous and previous ~= ARGV[1] then
	redis.call('DEL', ARGV[7] .. previous)
end
redis.call('HSET', KEYS[2], 'account', ARGV[2], 'purpose', ARGV[3], 'created', ARGV[4], 'expires', ARGV[5])
redis.call('PEXPIRE', KEYS[2], ARGV[6])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[6])
return 1
`)

// takeScript deletes and returns a live token with the given purpose.
//
// KEYS[1] token key. ARGV: purpose, now_ms, slot prefix, hash.
var takeScript = redis.NewScript(`
local fields = redis.call('HMGET', KEYS[1], 'account', 'purpose', 'created', 'expires')
if not fields[1] or fields[2] ~= ARGV[1] then
	return false
end
if tonumber(fields[4]) <= tonumber(ARGV[2]) then
	return false
end
redis.call('DEL', KEYS[1])
local slot = ARGV[3] .. fields[1]
if redis.call('GET', slot) == ARGV[4] then
	redis.call('DEL', slot)
end
return {fields[1], fields[3], fields[4]}
`)

// RedisStore implements [Store] with one hash per token plus one slot key per
// account pointing at the current token.
//
// Keys live for the token lifetime plus the retention window, after which
// Redis evicts them on its own; expiry itself is checked inside the scripts
// against the stored expires_at.
type RedisStore struct {
	client    redis.Cmdable
	retention time.Duration
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, retention: constants.SecretTokenRetention}
}

func tokenKey(hash string) string {
	return constants.RedisPrefixSecretToken + hash
}

func slotKey(accountID string) string {
	return constants.RedisPrefixAccountSlot + accountID
}

/*
Replace stores token and invalidates the account's previous one atomically.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Execution errors
*/
func (repository *RedisStore) Replace(context context.Context, token *Token) error {
	ttl := time.Until(token.ExpiresAt) + repository.retention
	if ttl <= 0 {
		ttl = time.Second
	}

	err := replaceScript.Run(context, repository.client,
		[]string{slotKey(token.AccountID), tokenKey(token.Hash)},
		token.Hash,
		token.AccountID,
		string(token.Purpose),
		token.CreatedAt.UnixMilli(),
		token.ExpiresAt.UnixMilli(),
		ttl.Milliseconds(),
		constants.RedisPrefixSecretToken,
	).Err()
	if err != nil {
		return fmt.Errorf("redis_secret_token_replace_failed: %w", err)
	}
	return nil
}

/*
Take deletes and returns the live token matching hash and purpose.

Parameters:
  - context: context.Context
  - hash: string
  - purpose: Purpose
  - now: time.Time

Returns:
  - *Token: The consumed token
  - error: ErrNotFound when nothing matched
*/
func (repository *RedisStore) Take(context context.Context, hash string, purpose Purpose, now time.Time) (*Token, error) {
	result, err := takeScript.Run(context, repository.client,
		[]string{tokenKey(hash)},
		string(purpose),
		now.UnixMilli(),
		constants.RedisPrefixAccountSlot,
		hash,
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_secret_token_take_failed: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("redis_secret_token_take_failed: unexpected reply of %d fields", len(result))
	}

	createdAt, err := parseMillis(result[1])
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseMillis(result[2])
	if err != nil {
		return nil, err
	}

	return &Token{
		AccountID: result[0],
		Purpose:   purpose,
		Hash:      hash,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

/*
Exists reports whether a token hash with the given purpose is still retained.

Parameters:
  - context: context.Context
  - hash: string
  - purpose: Purpose

Returns:
  - bool: Presence
  - error: Execution errors
*/
func (repository *RedisStore) Exists(context context.Context, hash string, purpose Purpose) (bool, error) {
	stored, err := repository.client.HGet(context, tokenKey(hash), "purpose").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_secret_token_exists_failed: %w", err)
	}
	return stored == string(purpose), nil
}

// DeleteExpiredBefore is a no-op: key TTLs already cover the retention window.
func (repository *RedisStore) DeleteExpiredBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func parseMillis(value string) (time.Time, error) {
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("redis_secret_token_decode_failed: %w", err)
	}
	return time.UnixMilli(millis).UTC(), nil
}
