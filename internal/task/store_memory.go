// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/authkit/internal/platform/dberr"
	"github.com/taibuivan/authkit/pkg/slice"
)

// MemoryRepository keeps tasks in process memory for local development and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*Task)}
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, task *Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.tasks[task.ID]; taken {
		return dberr.ErrDuplicate
	}
	repository.tasks[task.ID] = clone(task)
	return nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Task, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	task, ok := repository.tasks[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return clone(task), nil
}

// ListByOwner implements [Repository].
func (repository *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*Task, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	all := make([]*Task, 0, len(repository.tasks))
	for _, task := range repository.tasks {
		all = append(all, clone(task))
	}
	tasks := slice.Filter(all, func(task *Task) bool {
		return task.OwnerID == ownerID
	})

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Update implements [Repository].
func (repository *MemoryRepository) Update(_ context.Context, task *Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.tasks[task.ID]; !ok {
		return dberr.ErrNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	repository.tasks[task.ID] = clone(task)
	return nil
}

// Delete implements [Repository].
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.tasks[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repository.tasks, id)
	return nil
}

func clone(task *Task) *Task {
	copied := *task
	if task.DueDate != nil {
		due := *task.DueDate
		copied.DueDate = &due
	}
	return &copied
}
