// Package board computes the derived dashboard views (board selection and
// analytics) from a task list. Everything here is pure: the caller passes
// the tasks and "today", nothing is read from the clock.
package board

import (
	"sort"
	"strings"
	"time"

	"taskboard/internal/domain"
)

// Today returns the calendar date of now in loc. A nil loc means now's
// own location.
func Today(now time.Time, loc *time.Location) domain.Date {
	if loc != nil {
		now = now.In(loc)
	}
	return domain.DateOf(now)
}

// IsOverdue: due strictly before today and not completed. Tasks without a
// due date are never overdue.
func IsOverdue(t *domain.Task, today domain.Date) bool {
	if t.Completed || t.DueDate.IsZero() {
		return false
	}
	return t.DueDate.Before(today)
}

// Query selects tasks for the board.
type Query struct {
	Search string
	Filter domain.FilterMode
	Today  domain.Date
}

// SortByDueDate returns a new slice ordered by due date ascending. Ties
// keep their input order; undated tasks go last.
func SortByDueDate(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return out
}

// MatchesSearch is a case-insensitive substring match on title or
// description.
func MatchesSearch(t *domain.Task, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// MatchesFilter reports whether t passes mode. Unknown modes match nothing.
func MatchesFilter(t *domain.Task, mode domain.FilterMode, today domain.Date) bool {
	switch mode {
	case domain.FilterAll:
		return true
	case domain.FilterPending:
		return !t.Completed
	case domain.FilterCompleted:
		return t.Completed
	case domain.FilterHigh:
		return t.Priority == domain.PriorityHigh
	case domain.FilterOverdue:
		return IsOverdue(t, today)
	}
	return false
}

// Select sorts by due date, then applies search and filter.
func Select(tasks []*domain.Task, q Query) []*domain.Task {
	sorted := SortByDueDate(tasks)
	out := make([]*domain.Task, 0, len(sorted))
	for _, t := range sorted {
		if MatchesSearch(t, q.Search) && MatchesFilter(t, q.Filter, q.Today) {
			out = append(out, t)
		}
	}
	return out
}
