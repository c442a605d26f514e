package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/internal/domain"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT 'medium',
	category     TEXT NOT NULL DEFAULT 'Development',
	assignee     TEXT NOT NULL DEFAULT '',
	due_date     TEXT NOT NULL DEFAULT '',
	completed    INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL,
	completed_at DATETIME
);
`

// SQLiteTaskRepository persists the task snapshot in a SQLite file.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository opens (or creates) the database at path and
// ensures the tasks table exists. The caller must Close it.
func NewSQLiteTaskRepository(path string) (*SQLiteTaskRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteTaskRepository{db: db}, nil
}

func (r *SQLiteTaskRepository) Close() error { return r.db.Close() }

func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteTaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, priority, category, assignee, due_date, completed, created_at, completed_at
		FROM tasks
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *SQLiteTaskRepository) Upsert(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, category, assignee, due_date, completed, created_at, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			priority=excluded.priority,
			category=excluded.category,
			assignee=excluded.assignee,
			due_date=excluded.due_date,
			completed=excluded.completed,
			completed_at=excluded.completed_at`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Category), t.Assignee,
		t.DueDate.String(), t.Completed, t.CreatedAt.UTC(), nullTime(t),
	)
	if err != nil {
		return fmt.Errorf("upsert task %d: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var priority, category, due string
	var completedAt sql.NullTime

	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &priority, &category, &t.Assignee,
		&due, &t.Completed, &t.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Priority = domain.Priority(priority)
	t.Category = domain.Category(category)
	if t.DueDate, err = domain.ParseDate(due); err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return &t, nil
}

func nullTime(t *domain.Task) any {
	if t.CompletedAt == nil {
		return nil
	}
	return t.CompletedAt.UTC()
}
