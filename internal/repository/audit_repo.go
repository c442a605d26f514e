package repository

import (
	"context"
	"encoding/json"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository stores the task activity log in Postgres.
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new event and fills its ID and CreatedAt.
func (r *AuditRepository) Create(ctx context.Context, ev *domain.TaskEvent) error {
	detailsJSON, err := json.Marshal(ev.Details)
	if err != nil || ev.Details == nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO task_events (task_id, command, actor, request_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, ev.TaskID, ev.Command, ev.Actor, ev.RequestID, detailsJSON).Scan(&ev.ID, &ev.CreatedAt)
}

// GetRecent returns the most recent events, newest first.
func (r *AuditRepository) GetRecent(ctx context.Context, limit int) ([]*domain.TaskEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, command, actor, request_id, details, created_at
		FROM task_events
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByTask returns the events of one task, newest first.
func (r *AuditRepository) GetByTask(ctx context.Context, taskID int64, limit int) ([]*domain.TaskEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, command, actor, request_id, details, created_at
		FROM task_events
		WHERE task_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, taskID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*domain.TaskEvent, error) {
	events := []*domain.TaskEvent{}
	for rows.Next() {
		var ev domain.TaskEvent
		var detailsJSON []byte
		if err := rows.Scan(&ev.ID, &ev.TaskID, &ev.Command, &ev.Actor, &ev.RequestID, &detailsJSON, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &ev.Details); err != nil {
			ev.Details = make(map[string]any)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
