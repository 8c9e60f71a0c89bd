// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/task"
	"github.com/taibuivan/authkit/pkg/pointer"
)

var (
	ada = &sec.Identity{ID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", Name: "Ada", Role: sec.RoleUser, Trust: sec.TrustRemote}
	eve = &sec.Identity{ID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5c", Name: "Eve", Role: sec.RoleUser, Trust: sec.TrustDegraded}
)

/*
TestService_Create verifies defaults and ownership.
*/
func TestService_Create(t *testing.T) {
	service := task.NewService(task.NewMemoryRepository())

	created, err := service.Create(context.Background(), ada, task.CreateInput{
		Title: "Write report", Description: "Quarterly numbers",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, ada.ID, created.OwnerID)
	assert.Equal(t, task.PriorityLow, created.Priority)
	assert.Equal(t, task.StatusActive, created.Status)
	assert.False(t, created.Completed)
	assert.Nil(t, created.DueDate)
}

/*
TestService_Ownership verifies that other accounts cannot see or touch a task.
*/
func TestService_Ownership(t *testing.T) {
	service := task.NewService(task.NewMemoryRepository())
	created, err := service.Create(context.Background(), ada, task.CreateInput{Title: "a", Description: "b"})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), eve, created.ID)
	assert.ErrorIs(t, err, task.ErrNotOwner)

	_, err = service.Update(context.Background(), eve, created.ID, task.UpdateInput{Title: pointer.To("hijacked")})
	assert.ErrorIs(t, err, task.ErrNotOwner)

	assert.ErrorIs(t, service.Delete(context.Background(), eve, created.ID), task.ErrNotOwner)

	tasks, err := service.List(context.Background(), eve)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = service.Get(context.Background(), ada, "0190a1b2-c3d4-7e5f-8a9b-000000000000")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

/*
TestService_Update verifies partial updates.
*/
func TestService_Update(t *testing.T) {
	service := task.NewService(task.NewMemoryRepository())
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	created, err := service.Create(context.Background(), ada, task.CreateInput{
		Title: "a", Description: "b", DueDate: &due, Priority: task.PriorityHigh,
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), ada, created.ID, task.UpdateInput{
		Completed: pointer.To(true),
		Status:    pointer.To(task.StatusInactive),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, task.StatusInactive, updated.Status)
	assert.Equal(t, "a", updated.Title)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	updated, err = service.Update(context.Background(), ada, created.ID, task.UpdateInput{SetDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	stored, err := service.Get(context.Background(), ada, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Nil(t, stored.DueDate)
}

/*
TestService_ListAndDelete verifies listing order and deletion.
*/
func TestService_ListAndDelete(t *testing.T) {
	service := task.NewService(task.NewMemoryRepository())

	first, err := service.Create(context.Background(), ada, task.CreateInput{Title: "first", Description: "x"})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), ada, task.CreateInput{Title: "second", Description: "x"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), eve, task.CreateInput{Title: "other", Description: "x"})
	require.NoError(t, err)

	tasks, err := service.List(context.Background(), ada)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)

	require.NoError(t, service.Delete(context.Background(), ada, first.ID))
	assert.ErrorIs(t, service.Delete(context.Background(), ada, first.ID), task.ErrTaskNotFound)

	tasks, err = service.List(context.Background(), ada)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
