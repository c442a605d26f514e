package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/taskstore"
)

var ErrNotFound = errors.New("task not found")

// TaskRepository is the persistence behind the store. Implementations:
// repository.TaskRepository (Postgres) and repository.SQLiteTaskRepository.
type TaskRepository interface {
	List(ctx context.Context) ([]*domain.Task, error)
	Upsert(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

// replacer is implemented by repositories that can swap the whole
// snapshot atomically.
type replacer interface {
	Replace(ctx context.Context, tasks []*domain.Task) error
}

// ChangeFunc is called after every applied command. It runs on the
// dispatching goroutine and must not block.
type ChangeFunc func(res taskstore.Result)

// TaskService applies commands to the store and propagates applied
// changes to the repository, metrics and subscribers.
type TaskService struct {
	store *taskstore.Store
	repo  TaskRepository
	audit *AuditService
	loc   *time.Location
	now   func() time.Time

	// writeMu orders apply and persist so the repository sees commands
	// in the order the store applied them.
	writeMu sync.Mutex

	mu        sync.RWMutex
	listeners []ChangeFunc
}

type Option func(*TaskService)

// WithRepository enables write-through persistence.
func WithRepository(r TaskRepository) Option {
	return func(s *TaskService) { s.repo = r }
}

// WithAudit records applied task commands in the activity log.
func WithAudit(a *AuditService) Option {
	return func(s *TaskService) { s.audit = a }
}

// WithLocation sets the location used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *TaskService) { s.loc = loc }
}

// WithClock overrides time.Now for both the store and Today.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func NewTaskService(opts ...Option) *TaskService {
	s := &TaskService{
		loc: time.Local,
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.store = taskstore.New(taskstore.WithClock(s.now))
	return s
}

// OnChange registers fn for applied changes.
func (s *TaskService) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Dispatch applies cmd. The in-memory store stays authoritative: a
// persistence failure is returned but the applied change is kept.
// Listeners run after the write lock is released.
func (s *TaskService) Dispatch(ctx context.Context, cmd taskstore.Command) (taskstore.Result, error) {
	res, err := s.apply(ctx, cmd)
	if !res.Applied {
		return res, nil
	}

	s.mu.RLock()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(res)
	}
	return res, err
}

func (s *TaskService) apply(ctx context.Context, cmd taskstore.Command) (taskstore.Result, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res := s.store.Dispatch(cmd)
	commandsTotal.WithLabelValues(res.Command, appliedLabel(res.Applied)).Inc()

	log := logger.WithContext(ctx).With("command", res.Command, "applied", res.Applied)
	if res.Task != nil {
		log = log.With("task_id", res.Task.ID)
	}
	if !res.Applied {
		log.Debug("task command skipped")
		return res, nil
	}
	log.Info("task command applied")

	err := s.persist(ctx, cmd, res)
	if err != nil {
		log.Error("task persistence failed", "error", err)
	}
	if s.audit != nil && res.Task != nil {
		s.audit.Log(ctx, res)
	}
	s.updateGauges()
	return res, err
}

func (s *TaskService) persist(ctx context.Context, cmd taskstore.Command, res taskstore.Result) error {
	if s.repo == nil {
		return nil
	}
	switch c := cmd.(type) {
	case taskstore.AddTask, taskstore.UpdateTask, taskstore.ToggleComplete:
		return s.repo.Upsert(ctx, res.Task)
	case taskstore.DeleteTask:
		if err := s.repo.Delete(ctx, c.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	case taskstore.LoadTasks:
		tasks := s.store.Tasks()
		if r, ok := s.repo.(replacer); ok {
			return r.Replace(ctx, tasks)
		}
		for _, t := range tasks {
			if err := s.repo.Upsert(ctx, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Restore loads the persisted snapshot into the store. When the
// repository is empty and fallback is non-nil, fallback is loaded and
// written through instead.
func (s *TaskService) Restore(ctx context.Context, fallback []*domain.Task) error {
	if s.repo == nil {
		if fallback != nil {
			_, err := s.Dispatch(ctx, taskstore.LoadTasks{Tasks: fallback})
			return err
		}
		return nil
	}
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("restore tasks: %w", err)
	}
	if len(tasks) == 0 && fallback != nil {
		_, err := s.Dispatch(ctx, taskstore.LoadTasks{Tasks: fallback})
		return err
	}
	// the snapshot is already persisted, apply without write-through
	s.writeMu.Lock()
	s.store.Dispatch(taskstore.LoadTasks{Tasks: tasks})
	s.updateGauges()
	s.writeMu.Unlock()
	logger.WithContext(ctx).Info("tasks restored", "count", len(tasks))
	return nil
}

// Audit returns the activity log, nil when disabled.
func (s *TaskService) Audit() *AuditService {
	return s.audit
}

// Today is the current calendar date in the configured location.
func (s *TaskService) Today() domain.Date {
	return board.Today(s.now(), s.loc)
}

func (s *TaskService) Tasks() []*domain.Task {
	return s.store.Tasks()
}

func (s *TaskService) Get(id int64) (*domain.Task, error) {
	t, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Session is the shared view selection of the dashboard.
type Session struct {
	Filter domain.FilterMode `json:"filter"`
	Search string            `json:"search"`
	View   domain.View       `json:"view"`
}

func (s *TaskService) Session() Session {
	st := s.store.Snapshot()
	return Session{Filter: st.Filter, Search: st.Search, View: st.View}
}

// BoardQuery selects a board view. Zero fields fall back to the session
// filter/search and to Today.
type BoardQuery struct {
	Filter domain.FilterMode
	Search *string
	Today  domain.Date
}

// TaskCard is a task as rendered on the board.
type TaskCard struct {
	*domain.Task
	Overdue bool `json:"overdue"`
}

type BoardView struct {
	Filter domain.FilterMode `json:"filter"`
	Search string            `json:"search"`
	Today  domain.Date       `json:"today"`
	Tasks  []TaskCard        `json:"tasks"`
	Stats  board.Stats       `json:"stats"`
}

// Board computes the board view from one consistent snapshot.
func (s *TaskService) Board(q BoardQuery) BoardView {
	st := s.store.Snapshot()
	view := BoardView{Filter: st.Filter, Search: st.Search, Today: q.Today}
	if q.Filter != "" {
		view.Filter = q.Filter
	}
	if q.Search != nil {
		view.Search = *q.Search
	}
	if view.Today.IsZero() {
		view.Today = s.Today()
	}

	selected := board.Select(st.Tasks, board.Query{Search: view.Search, Filter: view.Filter, Today: view.Today})
	view.Tasks = make([]TaskCard, 0, len(selected))
	for _, t := range selected {
		view.Tasks = append(view.Tasks, TaskCard{Task: t, Overdue: board.IsOverdue(t, view.Today)})
	}
	view.Stats = board.ComputeStats(st.Tasks, view.Today)
	return view
}

// Analytics computes the analytics view; a zero today means Today().
func (s *TaskService) Analytics(today domain.Date) board.Analytics {
	if today.IsZero() {
		today = s.Today()
	}
	return board.Compute(s.store.Tasks(), today)
}

func (s *TaskService) updateGauges() {
	stats := board.ComputeStats(s.store.Tasks(), s.Today())
	tasksGauge.WithLabelValues("total").Set(float64(stats.Total))
	tasksGauge.WithLabelValues("completed").Set(float64(stats.Completed))
	tasksGauge.WithLabelValues("pending").Set(float64(stats.Pending))
	tasksGauge.WithLabelValues("overdue").Set(float64(stats.Overdue))
}

func appliedLabel(applied bool) string {
	if applied {
		return "true"
	}
	return "false"
}
