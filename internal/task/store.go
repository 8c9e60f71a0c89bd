// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import "context"

// Repository defines the data access contract for tasks.
//
// Implementations report a missing row as [dberr.ErrNotFound].
type Repository interface {
	Create(context context.Context, task *Task) error
	FindByID(context context.Context, id string) (*Task, error)

	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(context context.Context, ownerID string) ([]*Task, error)

	// Update persists every mutable field and refreshes UpdatedAt.
	Update(context context.Context, task *Task) error

	Delete(context context.Context, id string) error
}
