package domain

import "time"

// TaskEvent is one entry of the activity log: an applied command and
// who issued it.
type TaskEvent struct {
	ID        int64          `db:"id" json:"id"`
	TaskID    int64          `db:"task_id" json:"task_id,omitempty"`
	Command   string         `db:"command" json:"command"`
	Actor     string         `db:"actor" json:"actor,omitempty"`
	RequestID string         `db:"request_id" json:"request_id,omitempty"`
	Details   map[string]any `db:"details" json:"details"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
