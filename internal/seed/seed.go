// Package seed provides initial task lists: the built-in sample board and
// YAML seed files.
package seed

import (
	"fmt"
	"io"
	"os"
	"time"

	"taskboard/internal/domain"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a seed file:
//
//	tasks:
//	  - title: Code Review
//	    priority: medium
//	    due_date: 2025-08-30
type File struct {
	Tasks []*domain.Task `yaml:"tasks"`
}

// Sample returns the three demo tasks shown on a fresh dashboard.
func Sample() []*domain.Task {
	completedAt := time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	return []*domain.Task{
		{
			ID:          1,
			Title:       "Complete React Dashboard",
			Description: "Build a comprehensive task management system with advanced features",
			Priority:    domain.PriorityHigh,
			Category:    domain.CategoryDevelopment,
			Assignee:    "John Doe",
			DueDate:     domain.MustDate("2025-09-05"),
			CreatedAt:   time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Code Review",
			Description: "Review pull requests for the authentication module",
			Priority:    domain.PriorityMedium,
			Category:    domain.CategoryDevelopment,
			Assignee:    "Jane Smith",
			DueDate:     domain.MustDate("2025-08-30"),
			Completed:   true,
			CreatedAt:   time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
			CompletedAt: &completedAt,
		},
		{
			ID:          3,
			Title:       "Client Meeting Preparation",
			Description: "Prepare presentation slides for upcoming client meeting",
			Priority:    domain.PriorityHigh,
			Category:    domain.CategoryBusiness,
			Assignee:    "Mike Johnson",
			DueDate:     domain.MustDate("2025-08-29"),
			CreatedAt:   time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC),
		},
	}
}

// Parse decodes a seed document and validates priorities and titles.
func Parse(r io.Reader) ([]*domain.Task, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return []*domain.Task{}, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i, t := range f.Tasks {
		if t == nil || t.Title == "" {
			return nil, fmt.Errorf("seed task %d: title is required", i)
		}
		if t.Priority != "" && !t.Priority.Valid() {
			return nil, fmt.Errorf("seed task %d: %w %q", i, domain.ErrInvalidPriority, t.Priority)
		}
	}
	if f.Tasks == nil {
		f.Tasks = []*domain.Task{}
	}
	return f.Tasks, nil
}

// LoadFile reads a seed file from disk.
func LoadFile(path string) ([]*domain.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Write encodes tasks as a seed document.
func Write(w io.Writer, tasks []*domain.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Tasks: tasks}); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return enc.Close()
}
