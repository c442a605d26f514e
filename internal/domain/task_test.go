package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 2025 || d.Month != 8 || d.Day != 29 || d.String() != "2025-08-29" {
		t.Fatalf("date = %+v", d)
	}
	if z, err := ParseDate("  "); err != nil || !z.IsZero() {
		t.Fatalf("blank date = %+v, %v", z, err)
	}
	if _, err := ParseDate("29/08/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2025-08-29", "2025-08-30", -1},
		{"2025-09-01", "2025-08-31", 1},
		{"2024-12-31", "2025-01-01", -1},
		{"2025-09-01", "2025-09-01", 0},
	}
	for _, tc := range cases {
		if got := MustDate(tc.a).Compare(MustDate(tc.b)); got != tc.want {
			t.Errorf("Compare(%s,%s) = %d; want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"title":"x","due_date":"2025-09-05"}`), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.DueDate != MustDate("2025-09-05") {
		t.Fatalf("due = %s", task.DueDate)
	}
	b, err := json.Marshal(task.DueDate)
	if err != nil || string(b) != `"2025-09-05"` {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"not a date"`), &d); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := json.Unmarshal([]byte(`""`), &d); err != nil || !d.IsZero() {
		t.Fatalf("empty string = %+v, %v", d, err)
	}
}

func TestDateYAML(t *testing.T) {
	var task Task
	if err := yaml.Unmarshal([]byte("title: x\ndue_date: 2025-08-30\n"), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.DueDate != MustDate("2025-08-30") {
		t.Fatalf("due = %s", task.DueDate)
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Fatalf("empty priority = %q, %v", p, err)
	}
	if p, err := ParsePriority(" High "); err != nil || p != PriorityHigh {
		t.Fatalf("High = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestParseFilterMode(t *testing.T) {
	for _, s := range []string{"all", "pending", "completed", "high", "overdue", "OVERDUE"} {
		if _, err := ParseFilterMode(s); err != nil {
			t.Errorf("ParseFilterMode(%q): %v", s, err)
		}
	}
	if m, _ := ParseFilterMode(""); m != FilterAll {
		t.Fatalf("empty mode = %q", m)
	}
	if _, err := ParseFilterMode("late"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestPatch(t *testing.T) {
	task := &Task{ID: 1, Title: "a", Description: "d", Priority: PriorityLow}
	title := " b "
	p := Patch{Title: &title}
	if !p.Valid() {
		t.Fatal("patch should be valid")
	}
	p.Apply(task)
	if task.Title != "b" || task.Description != "d" || task.Priority != PriorityLow {
		t.Fatalf("task = %+v", task)
	}

	bad := PriorityMedium + "x"
	if (Patch{Priority: &bad}).Valid() {
		t.Fatal("unknown priority accepted")
	}
	blank := ""
	if (Patch{Title: &blank}).Valid() {
		t.Fatal("blank title accepted")
	}
}
