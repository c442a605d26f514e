package domain

import (
	"strings"
	"time"
)

// Priority - task urgency
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts the three known priorities; empty means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", ErrInvalidPriority
}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Category groups tasks on the analytics view. It is free text; the
// four below are the form's choices and other values are grouped as
// written.
type Category string

const (
	CategoryDevelopment Category = "Development"
	CategoryDesign      Category = "Design"
	CategoryBusiness    Category = "Business"
	CategoryMarketing   Category = "Marketing"
)

type Task struct {
	ID          int64      `db:"id" json:"id" yaml:"id,omitempty"`
	Title       string     `db:"title" json:"title" yaml:"title"`
	Description string     `db:"description" json:"description" yaml:"description,omitempty"`
	Priority    Priority   `db:"priority" json:"priority" yaml:"priority,omitempty"`
	Category    Category   `db:"category" json:"category" yaml:"category,omitempty"`
	Assignee    string     `db:"assignee" json:"assignee" yaml:"assignee,omitempty"`
	DueDate     Date       `db:"due_date" json:"due_date" yaml:"due_date,omitempty"`
	Completed   bool       `db:"completed" json:"completed" yaml:"completed,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at" yaml:"created_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Clone returns a deep copy; CompletedAt is not shared.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// Draft - form fields of a new task
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Assignee    string   `json:"assignee"`
	DueDate     Date     `json:"due_date"`
}

// Normalize fills form defaults (medium / Development) and trims the title.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Priority = Priority(strings.ToLower(string(d.Priority)))
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Category == "" {
		d.Category = CategoryDevelopment
	}
	return d
}

// Valid: title must be non-blank and priority known.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Title) != "" && (d.Priority == "" || d.Priority.Valid())
}

// Patch - partial update; nil fields are left untouched
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
}

// PatchFromDraft builds a patch that overwrites every form field, which
// is what the edit form submits.
func PatchFromDraft(d Draft) Patch {
	return Patch{
		Title:       &d.Title,
		Description: &d.Description,
		Priority:    &d.Priority,
		Category:    &d.Category,
		Assignee:    &d.Assignee,
		DueDate:     &d.DueDate,
	}
}

// Valid rejects a blank title or an unknown priority.
func (p Patch) Valid() bool {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return false
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return false
	}
	return true
}

// Apply merges present fields into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}
