package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row for the given id does not exist.
var ErrNotFound = errors.New("task not found")

// TaskRepository persists the task snapshot in Postgres.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns all tasks ordered by id, which is insertion order.
func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, priority, category, assignee, due_date, completed, created_at, completed_at
		FROM tasks
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		var t domain.Task
		var priority, category string
		var due *time.Time
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&priority,
			&category,
			&t.Assignee,
			&due,
			&t.Completed,
			&t.CreatedAt,
			&t.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = domain.Priority(priority)
		t.Category = domain.Category(category)
		if due != nil {
			t.DueDate = domain.DateOf(*due)
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// Upsert inserts t or overwrites the row with the same id. created_at is
// never overwritten.
func (r *TaskRepository) Upsert(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tasks (id, title, description, priority, category, assignee, due_date, completed, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			category = EXCLUDED.category,
			assignee = EXCLUDED.assignee,
			due_date = EXCLUDED.due_date,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Priority),
		string(t.Category),
		t.Assignee,
		dueDateArg(t.DueDate),
		t.Completed,
		t.CreatedAt,
		t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert task %d: %w", t.ID, err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace swaps the whole table content for tasks in one transaction.
func (r *TaskRepository) Replace(ctx context.Context, tasks []*domain.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, t := range tasks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, title, description, priority, category, assignee, due_date, completed, created_at, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.Title, t.Description, string(t.Priority), string(t.Category), t.Assignee,
			dueDateArg(t.DueDate), t.Completed, t.CreatedAt, t.CompletedAt,
		); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// Ping is used by the readiness probe.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func dueDateArg(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}
