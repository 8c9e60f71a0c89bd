// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/secrettoken"
	"github.com/taibuivan/authkit/pkg/uuid"
)

// runStoreContract exercises the behaviour every [secrettoken.Store] must share.
func runStoreContract(t *testing.T, store secrettoken.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	newToken := func(accountID, hash string, purpose secrettoken.Purpose, ttl time.Duration) *secrettoken.Token {
		return &secrettoken.Token{
			AccountID: accountID,
			Purpose:   purpose,
			Hash:      hash,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
	}

	t.Run("TakeOnce", func(t *testing.T) {
		account, hash := uuid.New(), uuid.New()
		require.NoError(t, store.Replace(ctx, newToken(account, hash, secrettoken.PurposeReset, time.Hour)))

		taken, err := store.Take(ctx, hash, secrettoken.PurposeReset, now)
		require.NoError(t, err)
		assert.Equal(t, account, taken.AccountID)

		_, err = store.Take(ctx, hash, secrettoken.PurposeReset, now)
		assert.ErrorIs(t, err, secrettoken.ErrNotFound)
	})

	t.Run("PurposeMismatch", func(t *testing.T) {
		account, hash := uuid.New(), uuid.New()
		require.NoError(t, store.Replace(ctx, newToken(account, hash, secrettoken.PurposeVerification, time.Hour)))

		_, err := store.Take(ctx, hash, secrettoken.PurposeReset, now)
		assert.ErrorIs(t, err, secrettoken.ErrNotFound)

		exists, err := store.Exists(ctx, hash, secrettoken.PurposeReset)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ExpiredIsRetained", func(t *testing.T) {
		account, hash := uuid.New(), uuid.New()
		require.NoError(t, store.Replace(ctx, newToken(account, hash, secrettoken.PurposeReset, time.Hour)))

		_, err := store.Take(ctx, hash, secrettoken.PurposeReset, now.Add(2*time.Hour))
		assert.ErrorIs(t, err, secrettoken.ErrNotFound)

		exists, err := store.Exists(ctx, hash, secrettoken.PurposeReset)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ReplaceInvalidatesPrevious", func(t *testing.T) {
		account := uuid.New()
		first, second := uuid.New(), uuid.New()
		require.NoError(t, store.Replace(ctx, newToken(account, first, secrettoken.PurposeReset, time.Hour)))
		require.NoError(t, store.Replace(ctx, newToken(account, second, secrettoken.PurposeVerification, time.Hour)))

		exists, err := store.Exists(ctx, first, secrettoken.PurposeReset)
		require.NoError(t, err)
		assert.False(t, exists)

		taken, err := store.Take(ctx, second, secrettoken.PurposeVerification, now)
		require.NoError(t, err)
		assert.Equal(t, account, taken.AccountID)
	})
}

/*
TestMemoryStore_Contract runs the shared store behaviour against MemoryStore.
*/
func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, secrettoken.NewMemoryStore())
}

/*
TestMemoryStore_Purge verifies the retention cutoff.
*/
func TestMemoryStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := secrettoken.NewMemoryStore()
	now := time.Now().UTC()

	require.NoError(t, store.Replace(ctx, &secrettoken.Token{AccountID: "a", Hash: "old", Purpose: secrettoken.PurposeReset, ExpiresAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Replace(ctx, &secrettoken.Token{AccountID: "b", Hash: "fresh", Purpose: secrettoken.PurposeReset, ExpiresAt: now.Add(-time.Hour)}))

	removed, err := store.DeleteExpiredBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Len())
}

/*
TestRedisStore_Contract runs the shared store behaviour against a live Redis.
Set REDIS_TEST_URL to enable it.
*/
func TestRedisStore_Contract(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	options, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	runStoreContract(t, secrettoken.NewRedisStore(client))
}

/*
TestPostgresStore_Contract runs the shared store behaviour against a live,
migrated database. Set DATABASE_TEST_URL to enable it.
*/
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("DATABASE_TEST_URL")
	if dsn == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runStoreContract(t, secrettoken.NewPostgresStore(pool))
}
