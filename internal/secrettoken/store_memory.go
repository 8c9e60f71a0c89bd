// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secrettoken

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in process memory. It backs local development and
// tests; tokens do not survive a restart.
type MemoryStore struct {
	mu        sync.Mutex
	byHash    map[string]*Token
	byAccount map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHash:    make(map[string]*Token),
		byAccount: make(map[string]string),
	}
}

// Replace implements [Store].
func (store *MemoryStore) Replace(_ context.Context, token *Token) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if previous, ok := store.byAccount[token.AccountID]; ok {
		delete(store.byHash, previous)
	}

	stored := *token
	store.byHash[token.Hash] = &stored
	store.byAccount[token.AccountID] = token.Hash
	return nil
}

// Take implements [Store].
func (store *MemoryStore) Take(_ context.Context, hash string, purpose Purpose, now time.Time) (*Token, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	token, ok := store.byHash[hash]
	if !ok || token.Purpose != purpose || !token.ExpiresAt.After(now) {
		return nil, ErrNotFound
	}

	store.remove(token)
	taken := *token
	return &taken, nil
}

// Exists implements [Store].
func (store *MemoryStore) Exists(_ context.Context, hash string, purpose Purpose) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	token, ok := store.byHash[hash]
	return ok && token.Purpose == purpose, nil
}

// DeleteExpiredBefore implements [Store].
func (store *MemoryStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var removed int64
	for _, token := range store.byHash {
		if token.ExpiresAt.Before(cutoff) {
			store.remove(token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored tokens.
func (store *MemoryStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.byHash)
}

// remove must be called with mu held.
func (store *MemoryStore) remove(token *Token) {
	delete(store.byHash, token.Hash)
	if store.byAccount[token.AccountID] == token.Hash {
		delete(store.byAccount, token.AccountID)
	}
}
