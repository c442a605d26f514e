package board

import (
	"testing"
	"time"

	"taskboard/internal/domain"
)

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, domain.MustDate("2025-09-01"))
	if s != (Stats{}) {
		t.Fatalf("empty stats = %+v", s)
	}
}

func TestComputeStats(t *testing.T) {
	tasks := []*domain.Task{
		task(1, "2025-09-05", false),
		task(2, "2025-08-30", true),
		task(3, "2025-08-29", false),
	}
	s := ComputeStats(tasks, domain.MustDate("2025-09-01"))
	want := Stats{Total: 3, Completed: 1, Pending: 2, Overdue: 1, CompletionRate: 33}
	if s != want {
		t.Fatalf("stats = %+v; want %+v", s, want)
	}

	tasks = append(tasks, task(4, "2025-09-10", true))
	s = ComputeStats(tasks, domain.MustDate("2025-09-01"))
	if s.CompletionRate != 50 {
		t.Fatalf("rate = %d; want 50", s.CompletionRate)
	}
}

func TestCompletionRateRounds(t *testing.T) {
	// 2/3 = 66.67 -> 67
	tasks := []*domain.Task{task(1, "", true), task(2, "", true), task(3, "", false)}
	if got := ComputeStats(tasks, domain.Date{}).CompletionRate; got != 67 {
		t.Fatalf("rate = %d; want 67", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	a := task(1, "", false)
	b := task(2, "", false)
	b.Category = domain.CategoryBusiness
	c := task(3, "", false)
	d := task(4, "", false)
	d.Category = "Research"

	got := CategoryBreakdown([]*domain.Task{a, b, c, d})
	if len(got) != 3 {
		t.Fatalf("categories = %+v", got)
	}
	if got[0].Category != domain.CategoryDevelopment || got[0].Count != 2 || got[0].Share != 50 {
		t.Fatalf("first row = %+v", got[0])
	}
	if got[1].Category != domain.CategoryBusiness || got[2].Category != "Research" {
		t.Fatalf("order = %+v", got)
	}
	if len(CategoryBreakdown(nil)) != 0 {
		t.Fatal("expected no rows for empty list")
	}
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	var tasks []*domain.Task
	for i := 0; i < 8; i++ {
		tk := task(int64(i+1), "", false)
		if i%4 != 3 {
			at := base.Add(time.Duration(i) * time.Hour)
			tk.Completed = true
			tk.CompletedAt = &at
		}
		tasks = append(tasks, tk)
	}
	got := RecentActivity(tasks, RecentLimit)
	want := []int64{7, 6, 5, 3, 2}
	if !equalIDs(ids(got), want) {
		t.Fatalf("recent = %v; want %v", ids(got), want)
	}
}

func TestCompute(t *testing.T) {
	tasks := []*domain.Task{task(1, "2025-08-29", false), task(2, "2025-08-30", true)}
	a := Compute(tasks, domain.MustDate("2025-09-01"))
	if a.Total != 2 || a.Overdue != 1 || len(a.Categories) != 1 || len(a.Recent) != 1 {
		t.Fatalf("analytics = %+v", a)
	}
}
