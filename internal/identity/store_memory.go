// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/authkit/internal/platform/dberr"
)

// MemoryAccountRepository keeps accounts in process memory for local
// development and tests.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
}

// NewMemoryAccountRepository creates an empty MemoryAccountRepository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
	}
}

// Create implements [AccountRepository].
func (repository *MemoryAccountRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byEmail[account.Email]; taken {
		return dberr.ErrDuplicate
	}
	if _, taken := repository.byID[account.ID]; taken {
		return dberr.ErrDuplicate
	}

	stored := *account
	repository.byID[account.ID] = &stored
	repository.byEmail[account.Email] = account.ID
	return nil
}

// FindByID implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	account, ok := repository.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	found := *account
	return &found, nil
}

// FindByEmail implements [AccountRepository].
func (repository *MemoryAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	repository.mu.RLock()
	id, ok := repository.byEmail[email]
	repository.mu.RUnlock()

	if !ok {
		return nil, dberr.ErrNotFound
	}
	return repository.FindByID(context, id)
}

// UpdateProfile implements [AccountRepository].
func (repository *MemoryAccountRepository) UpdateProfile(_ context.Context, account *Account) error {
	return repository.mutate(account.ID, func(stored *Account) {
		stored.Name = account.Name
		stored.Bio = account.Bio
		stored.Photo = account.Photo
		account.UpdatedAt = stored.UpdatedAt
	})
}

// UpdatePassword implements [AccountRepository].
func (repository *MemoryAccountRepository) UpdatePassword(_ context.Context, id, hash string) error {
	return repository.mutate(id, func(stored *Account) {
		stored.PasswordHash = hash
	})
}

// MarkVerified implements [AccountRepository].
func (repository *MemoryAccountRepository) MarkVerified(_ context.Context, id string) (bool, error) {
	changed := false
	err := repository.mutate(id, func(stored *Account) {
		changed = !stored.IsVerified
		stored.IsVerified = true
	})
	return changed, err
}

// mutate applies fn to the stored account under the write lock and stamps
// UpdatedAt before fn runs.
func (repository *MemoryAccountRepository) mutate(id string, fn func(stored *Account)) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.byID[id]
	if !ok {
		return dberr.ErrNotFound
	}
	stored.UpdatedAt = time.Now().UTC()
	fn(stored)
	return nil
}
