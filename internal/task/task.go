// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package task implements the task service: per-account task CRUD behind the
identity resolver.

The task service owns no accounts. Every request carries a [sec.Identity]
resolved from the bearer credential, and a task is only visible to the
account that created it.
*/
package task

import (
	"time"

	"github.com/taibuivan/authkit/internal/platform/apperr"
)

// # Enumerations

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status tells whether a task is still being worked on.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// # Domain Entities

// Task is a unit of work owned by one account.
type Task struct {
	ID          string     `json:"_id"`
	OwnerID     string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// # Domain Errors

var (
	ErrTaskNotFound = apperr.NotFound("Task")
	ErrNotOwner     = apperr.Forbidden("You do not have access to this task")
)

// # Field Identifiers

const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
	FieldPriority    = "priority"
	FieldStatus      = "status"
)

// # Constraints

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)
