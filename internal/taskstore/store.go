// Package taskstore owns the task list and applies mutation commands to
// it. Every command is applied synchronously under the store lock, so a
// reader never observes a half-applied mutation.
package taskstore

import (
	"sync"
	"time"

	"taskboard/internal/domain"
)

// State is the reducer state: the task list in insertion order plus the
// session view selection.
type State struct {
	Tasks  []*domain.Task    `json:"tasks"`
	Filter domain.FilterMode `json:"filter"`
	Search string            `json:"search"`
	View   domain.View       `json:"view"`
}

// Result describes what a Dispatch did. Task is a copy of the affected
// task after the command (for DeleteTask, the removed task).
type Result struct {
	Command string
	Applied bool
	Task    *domain.Task
}

type Store struct {
	mu     sync.RWMutex
	state  State
	nextID int64
	now    func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now for createdAt/completedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		state:  State{Tasks: []*domain.Task{}, Filter: domain.FilterAll, View: domain.ViewBoard},
		nextID: 1,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch applies cmd and reports the outcome. Invalid input and unknown
// ids are no-ops (Applied=false), never errors.
func (s *Store) Dispatch(cmd Command) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Command: cmd.Name()}
	switch c := cmd.(type) {
	case AddTask:
		res.Task, res.Applied = s.add(c.Draft)
	case UpdateTask:
		res.Task, res.Applied = s.update(c.ID, c.Patch)
	case DeleteTask:
		res.Task, res.Applied = s.delete(c.ID)
	case ToggleComplete:
		res.Task, res.Applied = s.toggle(c.ID)
	case LoadTasks:
		s.load(c.Tasks)
		res.Applied = true
	case SetFilter:
		if _, err := domain.ParseFilterMode(string(c.Mode)); err == nil && c.Mode != "" {
			res.Applied = s.state.Filter != c.Mode
			s.state.Filter = c.Mode
		}
	case SetSearch:
		res.Applied = s.state.Search != c.Query
		s.state.Search = c.Query
	case SetView:
		if _, err := domain.ParseView(string(c.View)); err == nil && c.View != "" {
			res.Applied = s.state.View != c.View
			s.state.View = c.View
		}
	}
	return res
}

func (s *Store) add(d domain.Draft) (*domain.Task, bool) {
	d = d.Normalize()
	if !d.Valid() {
		return nil, false
	}
	t := &domain.Task{
		ID:          s.nextID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Category:    d.Category,
		Assignee:    d.Assignee,
		DueDate:     d.DueDate,
		CreatedAt:   s.now().UTC(),
	}
	s.nextID++
	s.state.Tasks = append(s.state.Tasks, t)
	return t.Clone(), true
}

func (s *Store) update(id int64, p domain.Patch) (*domain.Task, bool) {
	if !p.Valid() {
		return nil, false
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	t := s.state.Tasks[i]
	p.Apply(t)
	return t.Clone(), true
}

func (s *Store) delete(id int64) (*domain.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	removed := s.state.Tasks[i]
	s.state.Tasks = append(s.state.Tasks[:i], s.state.Tasks[i+1:]...)
	return removed, true
}

func (s *Store) toggle(id int64) (*domain.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	t := s.state.Tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := s.now().UTC()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return t.Clone(), true
}

// load replaces the list. Loaded tasks are normalised so the store
// invariants hold: unique positive ids, CompletedAt set iff Completed,
// CreatedAt present.
func (s *Store) load(tasks []*domain.Task) {
	var maxID int64
	for _, t := range tasks {
		if t != nil && t.ID > maxID {
			maxID = t.ID
		}
	}

	seen := make(map[int64]bool, len(tasks))
	out := make([]*domain.Task, 0, len(tasks))
	now := s.now().UTC()
	for _, t := range tasks {
		if t == nil {
			continue
		}
		c := t.Clone()
		if c.ID <= 0 || seen[c.ID] {
			maxID++
			c.ID = maxID
		}
		seen[c.ID] = true
		if c.Priority == "" {
			c.Priority = domain.PriorityMedium
		}
		if c.Category == "" {
			c.Category = domain.CategoryDevelopment
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		switch {
		case c.Completed && c.CompletedAt == nil:
			at := now
			c.CompletedAt = &at
		case !c.Completed:
			c.CompletedAt = nil
		}
		out = append(out, c)
	}
	s.state.Tasks = out
	s.nextID = maxID + 1
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tasks returns copies of all tasks in insertion order.
func (s *Store) Tasks() []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Tasks)
}

// Get returns a copy of the task with id.
func (s *Store) Get(id int64) (*domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.state.Tasks[i].Clone(), true
	}
	return nil, false
}

// Snapshot returns a copy of the full reducer state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Tasks:  cloneAll(s.state.Tasks),
		Filter: s.state.Filter,
		Search: s.state.Search,
		View:   s.state.View,
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Tasks)
}

func cloneAll(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
