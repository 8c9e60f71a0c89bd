// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/authkit/internal/platform/database/schema"
	"github.com/taibuivan/authkit/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on tasks.task.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create inserts a new task row.

Parameters:
  - context: context.Context
  - task: *Task

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	table := schema.Task
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		table.Table, schema.List(table.Columns()),
	)

	_, err := repository.pool.Exec(context, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Priority),
		string(task.Status),
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return dberr.Wrap(err, "postgres_task_repo_create_failed")
}

/*
FindByID fetches a single task.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Task: Hydrated entity
  - error: dberr.ErrNotFound or retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Task, error) {
	table := schema.Task
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(table.Columns()), table.Table, table.ID)

	task, err := scanTask(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_find_failed")
	}
	return task, nil
}

/*
ListByOwner returns every task of ownerID, newest first.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - []*Task: Possibly empty list
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Task, error) {
	table := schema.Task
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC`,
		schema.List(table.Columns()), table.Table,
		table.OwnerID,
		table.CreatedAt, table.ID,
	)

	rows, err := repository.pool.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_list_failed")
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_task_repo_scan_failed")
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_list_failed")
	}
	return tasks, nil
}

/*
Update persists the mutable fields of task.

Parameters:
  - context: context.Context
  - task: *Task

Returns:
  - error: dberr.ErrNotFound or update failures
*/
func (repository *PostgresRepository) Update(context context.Context, task *Task) error {
	table := schema.Task
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		table.Table,
		table.Title, table.Description, table.DueDate, table.Priority,
		table.Status, table.Completed, table.UpdatedAt,
		table.ID,
	)

	task.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Priority),
		string(task.Status),
		task.Completed,
		task.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_task_repo_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
Delete removes a task row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: dberr.ErrNotFound or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Task.Table, schema.Task.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_task_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Helpers

func scanTask(row pgx.Row) (*Task, error) {
	task := &Task{}
	var priority, status string
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&priority,
		&status,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Priority = Priority(priority)
	task.Status = Status(status)
	return task, nil
}
