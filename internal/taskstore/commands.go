package taskstore

import "taskboard/internal/domain"

// Command is one mutation of the store. The set is closed: only the
// types in this file implement it.
type Command interface {
	// Name is the stable identifier used in logs and metrics.
	Name() string
	command()
}

type AddTask struct {
	Draft domain.Draft
}

type UpdateTask struct {
	ID    int64
	Patch domain.Patch
}

type DeleteTask struct {
	ID int64
}

type ToggleComplete struct {
	ID int64
}

// LoadTasks replaces the whole list, e.g. from a persisted snapshot.
type LoadTasks struct {
	Tasks []*domain.Task
}

type SetFilter struct {
	Mode domain.FilterMode
}

type SetSearch struct {
	Query string
}

// SetView switches the dashboard between the board and analytics pages.
type SetView struct {
	View domain.View
}

func (AddTask) Name() string        { return "add_task" }
func (UpdateTask) Name() string     { return "update_task" }
func (DeleteTask) Name() string     { return "delete_task" }
func (ToggleComplete) Name() string { return "toggle_complete" }
func (LoadTasks) Name() string      { return "load_tasks" }
func (SetFilter) Name() string      { return "set_filter" }
func (SetSearch) Name() string      { return "set_search" }
func (SetView) Name() string        { return "set_view" }

func (AddTask) command()        {}
func (UpdateTask) command()     {}
func (DeleteTask) command()     {}
func (ToggleComplete) command() {}
func (LoadTasks) command()      {}
func (SetFilter) command()      {}
func (SetSearch) command()      {}
func (SetView) command()        {}
