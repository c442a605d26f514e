package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/domain"
)

const sqliteEventsSchema = `
CREATE TABLE IF NOT EXISTS task_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id    INTEGER NOT NULL DEFAULT 0,
	command    TEXT NOT NULL,
	actor      TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	details    TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS task_events_task_idx ON task_events (task_id, id);
`

// SQLiteAuditRepository stores the activity log next to the tasks table.
type SQLiteAuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteAuditRepository shares the connection of tasks.
func NewSQLiteAuditRepository(tasks *SQLiteTaskRepository) (*SQLiteAuditRepository, error) {
	if _, err := tasks.db.Exec(sqliteEventsSchema); err != nil {
		return nil, fmt.Errorf("create events schema: %w", err)
	}
	return &SQLiteAuditRepository{db: tasks.db, now: time.Now}, nil
}

func (r *SQLiteAuditRepository) Create(ctx context.Context, ev *domain.TaskEvent) error {
	detailsJSON, err := json.Marshal(ev.Details)
	if err != nil || ev.Details == nil {
		detailsJSON = []byte("{}")
	}
	ev.CreatedAt = r.now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_events (task_id, command, actor, request_id, details, created_at)
		VALUES (?,?,?,?,?,?)`,
		ev.TaskID, ev.Command, ev.Actor, ev.RequestID, string(detailsJSON), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	ev.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteAuditRepository) GetRecent(ctx context.Context, limit int) ([]*domain.TaskEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, command, actor, request_id, details, created_at
		FROM task_events
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanSQLiteEvents(rows)
}

func (r *SQLiteAuditRepository) GetByTask(ctx context.Context, taskID int64, limit int) ([]*domain.TaskEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, command, actor, request_id, details, created_at
		FROM task_events
		WHERE task_id = ?
		ORDER BY id DESC
		LIMIT ?`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("list task events: %w", err)
	}
	defer rows.Close()
	return scanSQLiteEvents(rows)
}

func scanSQLiteEvents(rows *sql.Rows) ([]*domain.TaskEvent, error) {
	events := []*domain.TaskEvent{}
	for rows.Next() {
		var ev domain.TaskEvent
		var details string
		if err := rows.Scan(&ev.ID, &ev.TaskID, &ev.Command, &ev.Actor, &ev.RequestID, &details, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &ev.Details); err != nil {
			ev.Details = make(map[string]any)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
