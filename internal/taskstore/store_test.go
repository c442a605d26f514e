package taskstore

import (
	"testing"
	"time"

	"taskboard/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func mustAdd(t *testing.T, s *Store, title string) *domain.Task {
	t.Helper()
	res := s.Dispatch(AddTask{Draft: domain.Draft{Title: title, DueDate: domain.MustDate("2025-09-01")}})
	if !res.Applied || res.Task == nil {
		t.Fatalf("add %q not applied", title)
	}
	return res.Task
}

func checkCompletedInvariant(t *testing.T, s *Store) {
	t.Helper()
	for _, tk := range s.Tasks() {
		if tk.Completed != (tk.CompletedAt != nil) {
			t.Fatalf("task %d: completed=%v completedAt=%v", tk.ID, tk.Completed, tk.CompletedAt)
		}
	}
}

func TestAddAssignsIDAndCreatedAt(t *testing.T) {
	s, clock := newTestStore(t)
	a := mustAdd(t, s, "  first ")
	clock.Advance(time.Minute)
	b := mustAdd(t, s, "second")

	if a.ID == b.ID || a.ID <= 0 || b.ID <= a.ID {
		t.Fatalf("ids not monotonic: %d, %d", a.ID, b.ID)
	}
	if a.Title != "first" {
		t.Fatalf("title not trimmed: %q", a.Title)
	}
	if !a.CreatedAt.Equal(time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("createdAt = %v", a.CreatedAt)
	}
	if a.Priority != domain.PriorityMedium || a.Category != domain.CategoryDevelopment {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if a.Completed || a.CompletedAt != nil {
		t.Fatalf("new task must be pending")
	}
}

func TestAddBlankTitleSkipped(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, "keep")
	for _, title := range []string{"", "   ", "\t\n"} {
		res := s.Dispatch(AddTask{Draft: domain.Draft{Title: title}})
		if res.Applied {
			t.Fatalf("blank title %q applied", title)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d; want 1", s.Len())
	}
}

func TestAddUnknownPrioritySkipped(t *testing.T) {
	s, _ := newTestStore(t)
	res := s.Dispatch(AddTask{Draft: domain.Draft{Title: "x", Priority: "urgent"}})
	if res.Applied || s.Len() != 0 {
		t.Fatal("unknown priority must be skipped")
	}
	res = s.Dispatch(AddTask{Draft: domain.Draft{Title: "x", Priority: "HIGH"}})
	if !res.Applied || res.Task.Priority != domain.PriorityHigh {
		t.Fatalf("upper-case priority not normalised: %+v", res)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s, clock := newTestStore(t)
	a := mustAdd(t, s, "orig")
	clock.Advance(time.Hour)

	desc := "new description"
	prio := domain.PriorityHigh
	res := s.Dispatch(UpdateTask{ID: a.ID, Patch: domain.Patch{Description: &desc, Priority: &prio}})
	if !res.Applied {
		t.Fatal("update not applied")
	}
	got, _ := s.Get(a.ID)
	if got.Title != "orig" || got.Description != desc || got.Priority != prio {
		t.Fatalf("merged task = %+v", got)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", a.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateBlankTitleSkipped(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "orig")
	blank := "  "
	if res := s.Dispatch(UpdateTask{ID: a.ID, Patch: domain.Patch{Title: &blank}}); res.Applied {
		t.Fatal("blank title update applied")
	}
	got, _ := s.Get(a.ID)
	if got.Title != "orig" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	mustAdd(t, s, "a")
	mustAdd(t, s, "b")
	before := s.Tasks()

	title := "x"
	for _, cmd := range []Command{
		DeleteTask{ID: 999},
		ToggleComplete{ID: 999},
		UpdateTask{ID: 999, Patch: domain.Patch{Title: &title}},
	} {
		if res := s.Dispatch(cmd); res.Applied {
			t.Fatalf("%s on unknown id applied", cmd.Name())
		}
	}
	after := s.Tasks()
	if len(after) != len(before) {
		t.Fatalf("len changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		if *before[i] != *after[i] {
			t.Fatalf("task %d changed", before[i].ID)
		}
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	c := mustAdd(t, s, "c")

	res := s.Dispatch(DeleteTask{ID: b.ID})
	if !res.Applied || res.Task.ID != b.ID {
		t.Fatalf("delete result = %+v", res)
	}
	got := s.Tasks()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Fatalf("remaining = %+v", got)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s, clock := newTestStore(t)
	a := mustAdd(t, s, "a")

	clock.Advance(time.Hour)
	res := s.Dispatch(ToggleComplete{ID: a.ID})
	if !res.Task.Completed || res.Task.CompletedAt == nil {
		t.Fatalf("first toggle = %+v", res.Task)
	}
	if !res.Task.CompletedAt.Equal(clock.Now()) {
		t.Fatalf("completedAt = %v; want %v", res.Task.CompletedAt, clock.Now())
	}
	checkCompletedInvariant(t, s)

	res = s.Dispatch(ToggleComplete{ID: a.ID})
	if res.Task.Completed || res.Task.CompletedAt != nil {
		t.Fatalf("second toggle = %+v", res.Task)
	}
	checkCompletedInvariant(t, s)
}

func TestReadersGetCopies(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	s.Dispatch(ToggleComplete{ID: a.ID})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	*tasks[0].CompletedAt = time.Time{}

	got, _ := s.Get(a.ID)
	if got.Title != "a" || got.CompletedAt.IsZero() {
		t.Fatalf("store state leaked: %+v", got)
	}
}

func TestLoadTasksNormalises(t *testing.T) {
	s, clock := newTestStore(t)
	stamp := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	s.Dispatch(LoadTasks{Tasks: []*domain.Task{
		{ID: 7, Title: "done without stamp", Completed: true},
		{ID: 7, Title: "duplicate id"},
		{ID: 0, Title: "no id", CompletedAt: &stamp},
		nil,
	}})

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("len = %d", len(tasks))
	}
	seen := map[int64]bool{}
	for _, tk := range tasks {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %d", tk.ID)
		}
		seen[tk.ID] = true
		if tk.CreatedAt.IsZero() {
			t.Fatalf("task %d has no createdAt", tk.ID)
		}
	}
	checkCompletedInvariant(t, s)
	if !tasks[0].CompletedAt.Equal(clock.Now()) {
		t.Fatalf("completedAt = %v", tasks[0].CompletedAt)
	}

	next := mustAdd(t, s, "after load")
	if seen[next.ID] {
		t.Fatalf("new id %d collides with loaded ids", next.ID)
	}
}

func TestSetFilterAndSearch(t *testing.T) {
	s, _ := newTestStore(t)
	if res := s.Dispatch(SetFilter{Mode: domain.FilterOverdue}); !res.Applied {
		t.Fatal("set filter not applied")
	}
	if res := s.Dispatch(SetFilter{Mode: "weird"}); res.Applied {
		t.Fatal("unknown filter applied")
	}
	s.Dispatch(SetSearch{Query: "review"})

	st := s.Snapshot()
	if st.Filter != domain.FilterOverdue || st.Search != "review" {
		t.Fatalf("state = %+v", st)
	}
}

func TestSetView(t *testing.T) {
	s, _ := newTestStore(t)
	if got := s.Snapshot().View; got != domain.ViewBoard {
		t.Fatalf("initial view = %q", got)
	}
	if res := s.Dispatch(SetView{View: domain.ViewAnalytics}); !res.Applied {
		t.Fatal("set view not applied")
	}
	if res := s.Dispatch(SetView{View: domain.ViewAnalytics}); res.Applied {
		t.Fatal("unchanged view reported as applied")
	}
	if res := s.Dispatch(SetView{View: "calendar"}); res.Applied {
		t.Fatal("unknown view applied")
	}
	if got := s.Snapshot().View; got != domain.ViewAnalytics {
		t.Fatalf("view = %q", got)
	}
}
