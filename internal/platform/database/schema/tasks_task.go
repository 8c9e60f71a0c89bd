// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaskTable represents the 'tasks.task' table
type TaskTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	Completed   string
	CreatedAt   string
	UpdatedAt   string
}

// Task is the schema definition for tasks.task
var Task = TaskTable{
	Table:       "tasks.task",
	ID:          "id",
	OwnerID:     "ownerid",
	Title:       "title",
	Description: "description",
	DueDate:     "duedate",
	Priority:    "priority",
	Status:      "status",
	Completed:   "completed",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names, in scan order.
func (t TaskTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Description, t.DueDate, t.Priority,
		t.Status, t.Completed, t.CreatedAt, t.UpdatedAt,
	}
}
