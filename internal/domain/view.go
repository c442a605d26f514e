package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrInvalidView     = errors.New("invalid view")
)

// FilterMode - board filter selection
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterPending   FilterMode = "pending"
	FilterCompleted FilterMode = "completed"
	FilterHigh      FilterMode = "high"
	FilterOverdue   FilterMode = "overdue"
)

// ParseFilterMode: empty means all.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted, FilterHigh, FilterOverdue:
		return m, nil
	}
	return "", ErrInvalidFilter
}

// View - which dashboard page is shown
type View string

const (
	ViewBoard     View = "board"
	ViewAnalytics View = "analytics"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewBoard, nil
	case ViewBoard, ViewAnalytics:
		return v, nil
	}
	return "", ErrInvalidView
}
