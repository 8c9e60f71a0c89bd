// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/authkit/internal/platform/ctxutil"
	"github.com/taibuivan/authkit/internal/platform/dberr"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/pkg/pointer"
	"github.com/taibuivan/authkit/pkg/uuid"
)

// Service implements task use cases for a resolved caller.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Inputs

// CreateInput holds a new task. Empty Priority and Status take their defaults.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Status      Status
}

// UpdateInput holds a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	Completed   *bool

	// DueDate replaces the due date when SetDueDate is true; nil clears it.
	DueDate    *time.Time
	SetDueDate bool
}

// # Use Cases

/*
Create stores a task owned by the caller.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - input: CreateInput

Returns:
  - *Task: Created entity
  - error: Storage errors
*/
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     caller.ID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = PriorityLow
	}
	if task.Status == "" {
		task.Status = StatusActive
	}

	if err := service.repository.Create(context, task); err != nil {
		return nil, fmt.Errorf("task_create_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "task_created",
		slog.String("task_id", task.ID),
		slog.String("trust", string(caller.Trust)),
	)
	return task, nil
}

/*
List returns every task owned by the caller.

Parameters:
  - context: context.Context
  - caller: *sec.Identity

Returns:
  - []*Task: Possibly empty list
  - error: Storage errors
*/
func (service *Service) List(context context.Context, caller *sec.Identity) ([]*Task, error) {
	tasks, err := service.repository.ListByOwner(context, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("task_list_failed: %w", err)
	}
	return tasks, nil
}

/*
Get returns one task if the caller owns it.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: string

Returns:
  - *Task: Hydrated entity
  - error: ErrTaskNotFound, ErrNotOwner or storage errors
*/
func (service *Service) Get(context context.Context, caller *sec.Identity, id string) (*Task, error) {
	task, err := service.repository.FindByID(context, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("task_get_failed: %w", err)
	}

	if task.OwnerID != caller.ID {
		return nil, ErrNotOwner
	}
	return task, nil
}

/*
Update applies input to a task the caller owns.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: string
  - input: UpdateInput

Returns:
  - *Task: Updated entity
  - error: ErrTaskNotFound, ErrNotOwner or storage errors
*/
func (service *Service) Update(context context.Context, caller *sec.Identity, id string, input UpdateInput) (*Task, error) {
	task, err := service.Get(context, caller, id)
	if err != nil {
		return nil, err
	}

	task.Title = pointer.Fallback(input.Title, task.Title)
	task.Description = pointer.Fallback(input.Description, task.Description)
	task.Priority = pointer.Fallback(input.Priority, task.Priority)
	task.Status = pointer.Fallback(input.Status, task.Status)
	task.Completed = pointer.Fallback(input.Completed, task.Completed)
	if input.SetDueDate {
		task.DueDate = input.DueDate
	}

	if err := service.repository.Update(context, task); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("task_update_failed: %w", err)
	}
	return task, nil
}

/*
Delete removes a task the caller owns.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: string

Returns:
  - error: ErrTaskNotFound, ErrNotOwner or storage errors
*/
func (service *Service) Delete(context context.Context, caller *sec.Identity, id string) error {
	if _, err := service.Get(context, caller, id); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("task_delete_failed: %w", err)
	}
	return nil
}
