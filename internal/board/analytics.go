package board

import (
	"math"
	"sort"

	"taskboard/internal/domain"
)

// RecentLimit caps the recent activity feed.
const RecentLimit = 5

// Stats - quick counters shown above the board
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

// CategoryCount - one row of the category breakdown
type CategoryCount struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
	Share    float64         `json:"share"` // percent of all tasks
}

type Analytics struct {
	Stats
	Categories []CategoryCount `json:"categories"`
	Recent     []*domain.Task  `json:"recent"`
}

// ComputeStats counts tasks; CompletionRate is 0 for an empty list.
func ComputeStats(tasks []*domain.Task, today domain.Date) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if IsOverdue(t, today) {
			s.Overdue++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// CategoryBreakdown groups by category in order of first appearance.
func CategoryBreakdown(tasks []*domain.Task) []CategoryCount {
	idx := make(map[domain.Category]int)
	out := []CategoryCount{}
	for _, t := range tasks {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryCount{Category: t.Category})
		}
		out[i].Count++
	}
	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(len(tasks)) * 100
	}
	return out
}

// RecentActivity returns up to limit tasks with CompletedAt set, newest
// first.
func RecentActivity(tasks []*domain.Task, limit int) []*domain.Task {
	done := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CompletedAt != nil {
			done = append(done, t)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedAt.After(*done[j].CompletedAt)
	})
	if limit >= 0 && len(done) > limit {
		done = done[:limit]
	}
	return done
}

func Compute(tasks []*domain.Task, today domain.Date) Analytics {
	return Analytics{
		Stats:      ComputeStats(tasks, today),
		Categories: CategoryBreakdown(tasks),
		Recent:     RecentActivity(tasks, RecentLimit),
	}
}
