package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/taskstore"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// EventRepository persists the activity log. Implementations:
// repository.AuditRepository (Postgres) and repository.SQLiteAuditRepository.
type EventRepository interface {
	Create(ctx context.Context, ev *domain.TaskEvent) error
	GetRecent(ctx context.Context, limit int) ([]*domain.TaskEvent, error)
	GetByTask(ctx context.Context, taskID int64, limit int) ([]*domain.TaskEvent, error)
}

// AuditService records applied task commands
type AuditService struct {
	repo EventRepository
}

func NewAuditService(repo EventRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an applied command. Failures are logged, never returned:
// the activity log must not fail a task command.
func (s *AuditService) Log(ctx context.Context, res taskstore.Result) {
	ev := &domain.TaskEvent{
		Command:   res.Command,
		Actor:     ActorFrom(ctx),
		RequestID: RequestIDFrom(ctx),
		Details:   eventDetails(res),
	}
	if res.Task != nil {
		ev.TaskID = res.Task.ID
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		logger.WithContext(ctx).Error("failed to record task event", "error", err, "command", res.Command)
	}
}

// Recent returns the newest events; taskID > 0 narrows to one task.
func (s *AuditService) Recent(ctx context.Context, taskID int64, limit int) ([]*domain.TaskEvent, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	if taskID > 0 {
		return s.repo.GetByTask(ctx, taskID, limit)
	}
	return s.repo.GetRecent(ctx, limit)
}

func eventDetails(res taskstore.Result) map[string]any {
	details := make(map[string]any)
	t := res.Task
	if t == nil {
		return details
	}
	switch res.Command {
	case taskstore.ToggleComplete{}.Name():
		details["completed"] = t.Completed
	case taskstore.DeleteTask{}.Name():
		details["title"] = t.Title
	default:
		details["title"] = t.Title
		details["priority"] = string(t.Priority)
		details["category"] = string(t.Category)
		if !t.DueDate.IsZero() {
			details["due_date"] = t.DueDate.String()
		}
	}
	return details
}
